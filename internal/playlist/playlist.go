package playlist

// Playlist is a reference to one of the user's playlists
type Playlist struct {
	ID         string
	Name       string
	TrackCount int
}

// Artist is the subset of an artist record kept in a snapshot
type Artist struct {
	ID   string
	Name string
}

// Album is the subset of an album record kept in a snapshot
type Album struct {
	ID   string
	Name string
}

// Track is the nested track record of a playlist item
type Track struct {
	ID          string
	Name        string
	DiscNumber  int
	TrackNumber int
	IsLocal     bool
	Album       Album
	Artists     []Artist
}

// Item is a single playlist entry. Track is nil when the provider
// no longer has the track (removed or unavailable).
type Item struct {
	AddedAt string
	Track   *Track
}

// TrackRow is one exported line of a playlist snapshot.
// Field order and csv tags define the export header.
type TrackRow struct {
	PlaylistID   string   `csv:"playlist_id"`
	PlaylistName string   `csv:"playlist_name"`
	AddedAt      string   `csv:"added_at"`
	TrackID      string   `csv:"track_id"`
	Title        string   `csv:"title"`
	DiscNumber   int      `csv:"disc_number"`
	TrackNumber  int      `csv:"track_number"`
	IsLocal      bool     `csv:"is_local"`
	AlbumID      string   `csv:"album_id"`
	AlbumTitle   string   `csv:"album_title"`
	ArtistIDs    []string `csv:"artist_id"`
	ArtistNames  []string `csv:"artist_name"`
}
