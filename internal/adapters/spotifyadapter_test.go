package adapters

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"playlistsnapshot/internal/playlist"
)

func newTestAdapter(t *testing.T) *SpotifyAdapter {
	t.Helper()
	a, err := NewSpotifyAdapter("id", "secret", WithTokenCache(""))
	require.NoError(t, err)
	return a
}

func TestNewSpotifyAdapterRequiresCredentials(t *testing.T) {
	_, err := NewSpotifyAdapter("", "secret")
	assert.Error(t, err)

	_, err = NewSpotifyAdapter("id", "")
	assert.Error(t, err)
}

func TestSpotifyAdapterRequiresAuth(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	_, err := a.GetUserPlaylists(ctx, 50, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = a.GetPlaylistItems(ctx, "p1", 50, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = a.GetPlaylistName(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.NoError(t, a.Close())
}

func TestToItem(t *testing.T) {
	ft := &spotify.FullTrack{}
	ft.ID = "t1"
	ft.Name = "Song"
	ft.DiscNumber = 2
	ft.TrackNumber = 5
	ft.Album.ID = "al1"
	ft.Album.Name = "Record"
	ft.Artists = []spotify.SimpleArtist{
		{ID: "ar1", Name: "First"},
		{ID: "ar2", Name: "Second"},
	}

	item := spotify.PlaylistItem{AddedAt: "2021-01-01T00:00:00Z"}
	item.Track.Track = ft

	got := toItem(item)
	require.NotNil(t, got.Track)
	assert.Equal(t, "2021-01-01T00:00:00Z", got.AddedAt)
	assert.Equal(t, playlist.Track{
		ID:          "t1",
		Name:        "Song",
		DiscNumber:  2,
		TrackNumber: 5,
		Album:       playlist.Album{ID: "al1", Name: "Record"},
		Artists: []playlist.Artist{
			{ID: "ar1", Name: "First"},
			{ID: "ar2", Name: "Second"},
		},
	}, *got.Track)
}

func TestToItemWithoutTrack(t *testing.T) {
	got := toItem(spotify.PlaylistItem{AddedAt: "2021-01-01T00:00:00Z"})
	assert.Nil(t, got.Track)
	assert.Equal(t, "2021-01-01T00:00:00Z", got.AddedAt)
}

func TestToPlaylists(t *testing.T) {
	var p spotify.SimplePlaylist
	p.ID = "p1"
	p.Name = "Mix"

	assert.Equal(t, []playlist.Playlist{{ID: "p1", Name: "Mix"}}, toPlaylists([]spotify.SimplePlaylist{p}))
}

func TestTokenCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	tok, err := loadToken(path)
	require.NoError(t, err)
	assert.Nil(t, tok)

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, saveToken(path, want))

	got, err := loadToken(path)
	require.NoError(t, err)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)
	assert.True(t, want.Expiry.Equal(got.Expiry))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoggedInNamesPlatformAndUser(t *testing.T) {
	var out bytes.Buffer
	a, err := NewSpotifyAdapter("id", "secret", WithTokenCache(""), WithOutput(&out))
	require.NoError(t, err)

	user := &spotify.PrivateUser{}
	user.ID = "listener"
	require.NoError(t, a.loggedIn(user))

	assert.True(t, a.IsAuthenticated())
	assert.Equal(t, "You are logged in to Spotify as: listener\n", out.String())
}

func TestTokenCacheRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err := loadToken(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err = loadToken(path)
	assert.Error(t, err)
}

func TestCompleteAuthStateMismatch(t *testing.T) {
	a := newTestAdapter(t)

	req := httptest.NewRequest(http.MethodGet, "/?code=abc&state=wrong", nil)
	rec := httptest.NewRecorder()

	_, err := a.completeAuth(rec, req, "expected")
	assert.ErrorIs(t, err, ErrStateMismatch)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteAuthDenied(t *testing.T) {
	a := newTestAdapter(t)

	req := httptest.NewRequest(http.MethodGet, "/?error=access_denied&state=s", nil)
	rec := httptest.NewRecorder()

	_, err := a.completeAuth(rec, req, "s")
	assert.ErrorContains(t, err, "access_denied")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
