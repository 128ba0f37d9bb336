// Package adapterstest provides an in-memory ApiAdapter for tests.
package adapterstest

import (
	"context"
	"fmt"

	"playlistsnapshot/internal/playlist"
)

// Fake serves playlists and items from memory and counts every call
type Fake struct {
	Playlists []playlist.Playlist
	Items     map[string][]playlist.Item

	// Fail makes GetPlaylistItems return an error for these playlist ids
	Fail map[string]error

	Authenticated bool
	Closed        bool

	PlaylistCalls int
	NameCalls     map[string]int
	ItemCalls     map[string]int
}

// NewFake returns an empty Fake
func NewFake() *Fake {
	return &Fake{
		Items:     make(map[string][]playlist.Item),
		Fail:      make(map[string]error),
		NameCalls: make(map[string]int),
		ItemCalls: make(map[string]int),
	}
}

// AddPlaylist registers a playlist and its items
func (f *Fake) AddPlaylist(id, name string, items ...playlist.Item) {
	f.Playlists = append(f.Playlists, playlist.Playlist{ID: id, Name: name, TrackCount: len(items)})
	f.Items[id] = items
}

// Calls returns the number of requests made for anything
func (f *Fake) Calls() int {
	n := f.PlaylistCalls
	for _, c := range f.NameCalls {
		n += c
	}
	for _, c := range f.ItemCalls {
		n += c
	}
	return n
}

func (f *Fake) Authenticate(context.Context) error {
	f.Authenticated = true
	return nil
}

func (f *Fake) IsAuthenticated() bool { return f.Authenticated }

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

func (f *Fake) GetUserPlaylists(_ context.Context, limit, offset int) ([]playlist.Playlist, error) {
	f.PlaylistCalls++
	return window(f.Playlists, limit, offset), nil
}

func (f *Fake) GetPlaylistName(_ context.Context, playlistID string) (string, error) {
	f.NameCalls[playlistID]++
	for _, p := range f.Playlists {
		if p.ID == playlistID {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("playlist %s not found", playlistID)
}

func (f *Fake) GetPlaylistItems(_ context.Context, playlistID string, limit, offset int) ([]playlist.Item, error) {
	f.ItemCalls[playlistID]++
	if err := f.Fail[playlistID]; err != nil {
		return nil, err
	}
	return window(f.Items[playlistID], limit, offset), nil
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	return all[offset:min(offset+limit, len(all))]
}

// Track builds an item holding a track with a single artist
func Track(id, name, addedAt string) playlist.Item {
	return playlist.Item{
		AddedAt: addedAt,
		Track: &playlist.Track{
			ID:          id,
			Name:        name,
			DiscNumber:  1,
			TrackNumber: 1,
			Album:       playlist.Album{ID: "al-" + id, Name: "Album " + name},
			Artists:     []playlist.Artist{{ID: "ar-" + id, Name: "Artist " + name}},
		},
	}
}

// Removed builds an item whose track is gone
func Removed(addedAt string) playlist.Item {
	return playlist.Item{AddedAt: addedAt}
}
