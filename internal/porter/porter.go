package porter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"playlistsnapshot/internal/adapters"
	"playlistsnapshot/internal/playlist"
	"playlistsnapshot/internal/utils"
)

const (
	// ListingFile receives the "id: name" listing of every playlist
	ListingFile = "playlist.txt"

	exportPrefix     = "playlist_export_"
	exportTimeLayout = "20060102_150405"
)

// ExportHeader is the header row of every snapshot
var ExportHeader = utils.StructToCsvHeader(reflect.TypeOf(playlist.TrackRow{}))

// Porter exports playlists through an adapter to a music platform
type Porter struct {
	adapter   adapters.ApiAdapter
	names     *NameCache
	out       io.Writer
	logger    *zap.Logger
	outputDir string
	strict    bool
	now       func() time.Time
}

// Option configures a Porter
type Option func(*Porter)

// WithOutput sets where listing and progress lines are printed
func WithOutput(w io.Writer) Option {
	return func(p *Porter) { p.out = w }
}

// WithLogger sets the diagnostic logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Porter) { p.logger = l }
}

// WithOutputDir sets the directory export and listing files are written to
func WithOutputDir(dir string) Option {
	return func(p *Porter) { p.outputDir = dir }
}

// WithStrictCSV switches the export from legacy quoting to RFC 4180
func WithStrictCSV(strict bool) Option {
	return func(p *Porter) { p.strict = strict }
}

// WithClock overrides the clock used to name export files
func WithClock(now func() time.Time) Option {
	return func(p *Porter) { p.now = now }
}

// NewPorter creates a new Porter using the specified adapter
func NewPorter(adapter adapters.ApiAdapter, opts ...Option) *Porter {
	p := &Porter{
		adapter:   adapter,
		out:       os.Stdout,
		logger:    zap.NewNop(),
		outputDir: ".",
		now:       time.Now,
	}
	p.names = NewNameCache(adapter.GetPlaylistName)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Names exposes the playlist name cache
func (s *Porter) Names() *NameCache {
	return s.names
}

// GetPlaylists retrieves all of the user's playlists and remembers their names
func (s *Porter) GetPlaylists(ctx context.Context) ([]playlist.Playlist, error) {
	playlists, err := utils.Paginate(ctx, utils.PageSize, s.adapter.GetUserPlaylists)
	if err != nil {
		return nil, fmt.Errorf("error getting playlists: %w", err)
	}

	for _, pl := range playlists {
		s.names.Store(pl.ID, pl.Name)
	}
	s.logger.Info("enumerated playlists", zap.Int("count", len(playlists)))
	return playlists, nil
}

// WritePlaylistListing prints one "id: name" line per playlist and writes
// the same lines to the listing file, replacing its previous content.
func (s *Porter) WritePlaylistListing(playlists []playlist.Playlist) (string, error) {
	path := filepath.Join(s.outputDir, ListingFile)

	var b strings.Builder
	fmt.Fprintln(s.out, "Your playlists:")
	for _, pl := range playlists {
		line := fmt.Sprintf("%s: %s", pl.ID, pl.Name)
		fmt.Fprintln(s.out, line)
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("error writing playlist listing: %w", err)
	}
	return path, nil
}

// GetPlaylistTracks retrieves every item of a playlist and projects them to rows
func (s *Porter) GetPlaylistTracks(ctx context.Context, pl playlist.Playlist) ([]playlist.TrackRow, error) {
	items, err := utils.Paginate(ctx, utils.PageSize,
		func(ctx context.Context, limit, offset int) ([]playlist.Item, error) {
			return s.adapter.GetPlaylistItems(ctx, pl.ID, limit, offset)
		})
	if err != nil {
		return nil, fmt.Errorf("error getting tracks of playlist %s: %w", pl.ID, err)
	}

	rows := playlist.ProjectAll(pl, items)
	s.logger.Debug("fetched playlist",
		zap.String("playlist", pl.ID),
		zap.Int("items", len(items)),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}

// ExportPlaylistsToCSV writes a snapshot of the given playlists to a new
// timestamped file and returns its path.
//
// The header is written first. Each playlist is then fetched completely and
// appended with its own open of the file, so a failure leaves all earlier
// playlists in place and none of the failing one. Excluded playlists are
// skipped before any request is made for them.
func (s *Porter) ExportPlaylistsToCSV(ctx context.Context, playlistIDs, excludes []string) (string, error) {
	path := filepath.Join(s.outputDir, exportPrefix+s.now().Format(exportTimeLayout)+".csv")
	if err := utils.CreateCsvFile(path, ExportHeader, s.strict); err != nil {
		return "", err
	}

	excluded := lo.SliceToMap(excludes, func(id string) (string, struct{}) { return id, struct{}{} })

	for _, id := range playlistIDs {
		if _, skip := excluded[id]; skip {
			if name, ok := s.names.Lookup(id); ok {
				fmt.Fprintf(s.out, "!! Skipping %s - %s\n", id, name)
			} else {
				fmt.Fprintf(s.out, "!! Skipping %s\n", id)
			}
			continue
		}

		name, err := s.names.Resolve(ctx, id)
		if err != nil {
			return path, fmt.Errorf("error getting name of playlist %s: %w", id, err)
		}
		fmt.Fprintf(s.out, "Fetching %s: %s\n", id, name)

		rows, err := s.GetPlaylistTracks(ctx, playlist.Playlist{ID: id, Name: name})
		if err != nil {
			return path, err
		}

		records := lo.Map(rows, func(r playlist.TrackRow, _ int) []string { return r.Record(s.strict) })
		if err := utils.AppendCsvRecords(path, records, s.strict); err != nil {
			return path, err
		}
	}

	fmt.Fprintf(s.out, "All playlists processed, wrote %s\n", path)
	return path, nil
}
