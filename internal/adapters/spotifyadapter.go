package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"playlistsnapshot/internal/playlist"
	"playlistsnapshot/internal/utils"
)

const (
	spotifyRedirectURI = "http://localhost:8000"

	// DefaultTokenCache is where the OAuth token is kept between runs
	DefaultTokenCache = ".cache"

	// playlistItemFields limits playlist item responses to what a snapshot
	// row needs. track(type) is required for the client to tell tracks
	// from episodes.
	playlistItemFields = "items(added_at,is_local,track(type,id,name,disc_number,track_number,is_local,album(id,name),artists(id,name)))"
)

var spotifyScopes = []string{
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// SpotifyAdapter adapts the Spotify API to our common adapter interface
type SpotifyAdapter struct {
	BaseAdapter
	auth       *spotifyauth.Authenticator
	client     *spotify.Client
	tokenCache string
	out        io.Writer
	logger     *zap.Logger
}

// SpotifyOption configures a SpotifyAdapter
type SpotifyOption func(*SpotifyAdapter)

// WithTokenCache sets the file the OAuth token is read from and saved to.
// An empty path disables caching.
func WithTokenCache(path string) SpotifyOption {
	return func(a *SpotifyAdapter) { a.tokenCache = path }
}

// WithOutput sets where user facing messages are printed
func WithOutput(w io.Writer) SpotifyOption {
	return func(a *SpotifyAdapter) { a.out = w }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *zap.Logger) SpotifyOption {
	return func(a *SpotifyAdapter) { a.logger = l }
}

// NewSpotifyAdapter creates a new SpotifyAdapter
func NewSpotifyAdapter(clientID, clientSecret string, opts ...SpotifyOption) (*SpotifyAdapter, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret must be provided")
	}

	a := &SpotifyAdapter{
		BaseAdapter: NewBaseAdapter("Spotify"),
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL(spotifyRedirectURI),
			spotifyauth.WithScopes(spotifyScopes...),
			spotifyauth.WithClientID(clientID),
			spotifyauth.WithClientSecret(clientSecret),
		),
		tokenCache: DefaultTokenCache,
		out:        os.Stdout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Authenticate reuses a cached token when it still works and otherwise
// runs the authorization code flow in the user's browser.
func (a *SpotifyAdapter) Authenticate(ctx context.Context) error {
	tok, err := loadToken(a.tokenCache)
	if err != nil {
		a.logger.Debug("no usable cached token", zap.String("path", a.tokenCache), zap.Error(err))
	}

	if tok != nil {
		user, err := a.connect(ctx, tok)
		if err == nil {
			a.logger.Debug("reusing cached token", zap.String("path", a.tokenCache))
			return a.loggedIn(user)
		}
		a.logger.Info("cached token rejected, authorizing again", zap.Error(err))
	}

	tok, err = a.authorize(ctx)
	if err != nil {
		return err
	}

	user, err := a.connect(ctx, tok)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	return a.loggedIn(user)
}

func (a *SpotifyAdapter) connect(ctx context.Context, tok *oauth2.Token) (*spotify.PrivateUser, error) {
	a.client = spotify.New(a.auth.Client(ctx, tok))
	return a.client.CurrentUser(ctx)
}

func (a *SpotifyAdapter) loggedIn(user *spotify.PrivateUser) error {
	a.SetAuthenticated(true)
	fmt.Fprintf(a.out, "You are logged in to %s as: %s\n", a.PlatformName(), user.ID)
	return a.persistToken()
}

// authorize serves the redirect URI locally, sends the user to the
// Spotify consent page and waits for the callback.
func (a *SpotifyAdapter) authorize(ctx context.Context) (*oauth2.Token, error) {
	state, err := utils.GenerateState()
	if err != nil {
		return nil, err
	}

	redirect, err := url.Parse(spotifyRedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect uri: %w", err)
	}

	type result struct {
		token *oauth2.Token
		err   error
	}
	results := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("code") == "" && q.Get("error") == "" {
			a.logger.Debug("ignoring request", zap.String("url", r.URL.String()))
			http.NotFound(w, r)
			return
		}
		tok, err := a.completeAuth(w, r, state)
		select {
		case results <- result{token: tok, err: err}:
		default:
		}
	})

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("error starting callback server: %w", err)
	}
	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("callback server stopped", zap.Error(err))
		}
	}()
	defer server.Close()

	authURL := a.auth.AuthURL(state)
	fmt.Fprintln(a.out, "Please log in to Spotify by visiting the following page in your browser:", authURL)
	utils.OpenBrowser(a.out, authURL)

	var tok *oauth2.Token
	err = spinner.New().
		Title("Waiting for Spotify authorization...").
		Context(ctx).
		ActionWithErr(func(ctx context.Context) error {
			select {
			case res := <-results:
				tok = res.token
				return res.err
			case <-ctx.Done():
				return ctx.Err()
			}
		}).
		Run()
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	return tok, nil
}

// completeAuth is the callback handler for the Spotify auth flow
func (a *SpotifyAdapter) completeAuth(w http.ResponseWriter, r *http.Request, state string) (*oauth2.Token, error) {
	if st := r.FormValue("state"); st != state {
		http.NotFound(w, r)
		return nil, fmt.Errorf("%w: %s != %s", ErrStateMismatch, st, state)
	}
	if e := r.FormValue("error"); e != "" {
		http.Error(w, "Authorization denied", http.StatusForbidden)
		return nil, fmt.Errorf("authorization denied: %s", e)
	}

	tok, err := a.auth.Token(r.Context(), state, r)
	if err != nil {
		http.Error(w, "Couldn't get token", http.StatusForbidden)
		return nil, fmt.Errorf("error exchanging code for token: %w", err)
	}

	fmt.Fprintf(w, "Login Completed! You can now close this window.")
	return tok, nil
}

// Close writes the current, possibly refreshed, token back to the cache
func (a *SpotifyAdapter) Close() error {
	if !a.IsAuthenticated() {
		return nil
	}
	return a.persistToken()
}

func (a *SpotifyAdapter) persistToken() error {
	if a.tokenCache == "" {
		return nil
	}
	tok, err := a.client.Token()
	if err != nil {
		return fmt.Errorf("error reading token: %w", err)
	}
	return saveToken(a.tokenCache, tok)
}

// GetUserPlaylists retrieves one page of the current user's playlists
func (a *SpotifyAdapter) GetUserPlaylists(ctx context.Context, limit, offset int) ([]playlist.Playlist, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}

	page, err := a.client.CurrentUsersPlaylists(ctx, spotify.Limit(limit), spotify.Offset(offset))
	if err != nil {
		return nil, fmt.Errorf("error getting playlists: %w", err)
	}
	a.logger.Debug("playlist page", zap.Int("offset", offset), zap.Int("items", len(page.Playlists)))

	return toPlaylists(page.Playlists), nil
}

// GetPlaylistName fetches the name of a single playlist
func (a *SpotifyAdapter) GetPlaylistName(ctx context.Context, playlistID string) (string, error) {
	if err := a.CheckAuth(); err != nil {
		return "", err
	}

	p, err := a.client.GetPlaylist(ctx, spotify.ID(playlistID), spotify.Fields("name"))
	if err != nil {
		return "", fmt.Errorf("error getting playlist %s: %w", playlistID, err)
	}
	return p.Name, nil
}

// GetPlaylistItems retrieves one page of a playlist's items
func (a *SpotifyAdapter) GetPlaylistItems(ctx context.Context, playlistID string, limit, offset int) ([]playlist.Item, error) {
	if err := a.CheckAuth(); err != nil {
		return nil, err
	}

	page, err := a.client.GetPlaylistItems(
		ctx,
		spotify.ID(playlistID),
		spotify.Limit(limit),
		spotify.Offset(offset),
		spotify.Fields(playlistItemFields),
	)
	if err != nil {
		return nil, fmt.Errorf("error getting playlist items: %w", err)
	}
	a.logger.Debug("playlist items page",
		zap.String("playlist", playlistID),
		zap.Int("offset", offset),
		zap.Int("items", len(page.Items)),
	)

	items := make([]playlist.Item, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, toItem(item))
	}
	return items, nil
}

func toPlaylists(in []spotify.SimplePlaylist) []playlist.Playlist {
	out := make([]playlist.Playlist, 0, len(in))
	for _, p := range in {
		out = append(out, playlist.Playlist{
			ID:         string(p.ID),
			Name:       p.Name,
			TrackCount: int(p.Tracks.Total),
		})
	}
	return out
}

// toItem converts a Spotify playlist item. Episodes and missing tracks
// become items without a track.
func toItem(item spotify.PlaylistItem) playlist.Item {
	out := playlist.Item{AddedAt: item.AddedAt}

	track := item.Track.Track
	if track == nil {
		return out
	}

	artists := make([]playlist.Artist, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, playlist.Artist{ID: string(artist.ID), Name: artist.Name})
	}

	out.Track = &playlist.Track{
		ID:          string(track.ID),
		Name:        track.Name,
		DiscNumber:  int(track.DiscNumber),
		TrackNumber: int(track.TrackNumber),
		IsLocal:     item.IsLocal,
		Album:       playlist.Album{ID: string(track.Album.ID), Name: track.Album.Name},
		Artists:     artists,
	}
	return out
}
