package playlist

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const quote = `"`

// Project maps a playlist item to a TrackRow. It returns false for items
// without a track or whose track has no id, which covers tracks removed
// from the catalogue as well as local files.
func Project(pl Playlist, item Item) (TrackRow, bool) {
	t := item.Track
	if t == nil || t.ID == "" {
		return TrackRow{}, false
	}

	return TrackRow{
		PlaylistID:   pl.ID,
		PlaylistName: pl.Name,
		AddedAt:      NormalizeAddedAt(item.AddedAt),
		TrackID:      t.ID,
		Title:        t.Name,
		DiscNumber:   t.DiscNumber,
		TrackNumber:  t.TrackNumber,
		IsLocal:      t.IsLocal,
		AlbumID:      t.Album.ID,
		AlbumTitle:   t.Album.Name,
		ArtistIDs:    lo.Map(t.Artists, func(a Artist, _ int) string { return a.ID }),
		ArtistNames:  lo.Map(t.Artists, func(a Artist, _ int) string { return a.Name }),
	}, true
}

// ProjectAll projects every item of a playlist, dropping suppressed ones.
func ProjectAll(pl Playlist, items []Item) []TrackRow {
	return lo.FilterMap(items, func(item Item, _ int) (TrackRow, bool) {
		return Project(pl, item)
	})
}

// NormalizeAddedAt turns "2024-01-02T03:04:05Z" into "2024-01-02_03:04:05".
func NormalizeAddedAt(ts string) string {
	return strings.TrimSuffix(strings.Replace(ts, "T", "_", 1), "Z")
}

// Record renders the row as export columns.
//
// Without strict, text fields are wrapped in double quotes and artist
// lists are joined with ", " inside one quoted field. Embedded quotes are
// not escaped, so such rows are not valid RFC 4180; this matches the
// format of older snapshots, which also spell is_local as True/False.
// With strict, raw values are returned, is_local is true/false and
// quoting is left to an encoding/csv writer.
func (r TrackRow) Record(strict bool) []string {
	wrap := func(s string) string { return quote + s + quote }
	isLocal := legacyBool(r.IsLocal)
	if strict {
		wrap = func(s string) string { return s }
		isLocal = strconv.FormatBool(r.IsLocal)
	}

	return []string{
		r.PlaylistID,
		wrap(r.PlaylistName),
		r.AddedAt,
		r.TrackID,
		wrap(r.Title),
		strconv.Itoa(r.DiscNumber),
		strconv.Itoa(r.TrackNumber),
		isLocal,
		r.AlbumID,
		wrap(r.AlbumTitle),
		wrap(strings.Join(r.ArtistIDs, ", ")),
		wrap(strings.Join(r.ArtistNames, ", ")),
	}
}

func legacyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
