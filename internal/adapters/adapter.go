package adapters

import (
	"context"

	"playlistsnapshot/internal/playlist"
)

// ApiAdapter is the music provider as seen by the exporter: an
// authenticated client able to page through the user's playlists and
// through the items of one playlist.
type ApiAdapter interface {
	// Authentication methods
	Authenticate(ctx context.Context) error
	IsAuthenticated() bool

	// Close releases the adapter and persists whatever session state it holds
	Close() error

	// Page-level listing methods; limit and offset are passed through to the provider
	GetUserPlaylists(ctx context.Context, limit, offset int) ([]playlist.Playlist, error)
	GetPlaylistItems(ctx context.Context, playlistID string, limit, offset int) ([]playlist.Item, error)

	// GetPlaylistName fetches the metadata of a single playlist
	GetPlaylistName(ctx context.Context, playlistID string) (string, error)
}
