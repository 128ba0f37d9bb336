package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"playlistsnapshot/internal/adapters"
	"playlistsnapshot/internal/config"
	"playlistsnapshot/internal/playlist"
	"playlistsnapshot/internal/porter"
)

// NewAdapter creates the provider client once credentials are resolved.
// Tests replace it with an in-memory adapter.
var NewAdapter = func(c *cli.Context, cfg config.Config) (adapters.ApiAdapter, error) {
	return adapters.NewSpotifyAdapter(cfg.ClientID, cfg.Secret,
		adapters.WithTokenCache(c.String("token-cache")),
		adapters.WithOutput(c.App.Writer),
		adapters.WithLogger(loggerFrom(c)),
	)
}

// pickPlaylists lets the user choose playlists; replaced in tests
var pickPlaylists = func(playlists []playlist.Playlist) ([]string, error) {
	var ids []string
	err := huh.NewMultiSelect[string]().
		Title("Choose the playlists to export").
		Height(15).
		Options(getPlaylistOptions(playlists)...).
		Value(&ids).
		Run()
	return ids, err
}

// Snapshot exports the configured playlists, or every playlist of the
// user when none are configured.
func Snapshot(c *cli.Context) error {
	if err := checkNoArgs(c); err != nil {
		return err
	}

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	p, closeAdapter, err := connect(c, cfg)
	if err != nil {
		return err
	}
	defer closeAdapter()

	ctx := c.Context
	playlistIDs := cfg.Playlists

	if len(playlistIDs) == 0 {
		playlists, err := listPlaylists(c, p)
		if err != nil {
			return err
		}

		if c.Bool("pick") {
			playlistIDs, err = pickPlaylists(playlists)
			if err != nil {
				return fmt.Errorf("playlist selection canceled: %w", err)
			}
		} else {
			playlistIDs = lo.Map(playlists, func(pl playlist.Playlist, _ int) string { return pl.ID })
		}
	}

	loggerFrom(c).Debug("exporting playlists",
		zap.Strings("playlists", playlistIDs),
		zap.Strings("excludes", cfg.Exclude),
	)
	_, err = p.ExportPlaylistsToCSV(ctx, playlistIDs, cfg.Exclude)
	return err
}

// List writes the listing of every playlist without exporting tracks
func List(c *cli.Context) error {
	if err := checkNoArgs(c); err != nil {
		return err
	}

	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	p, closeAdapter, err := connect(c, cfg)
	if err != nil {
		return err
	}
	defer closeAdapter()

	_, err = listPlaylists(c, p)
	return err
}

// checkNoArgs rejects positional arguments. Flag parsing stops at the first
// one, so "-x B C" would otherwise drop C from the excludes.
func checkNoArgs(c *cli.Context) error {
	if !c.Args().Present() {
		return nil
	}
	return cli.Exit(fmt.Sprintf(
		"unexpected arguments: %s (repeat the flag or separate ids with commas, e.g. -x B,C)",
		strings.Join(c.Args().Slice(), " "),
	), 1)
}

// resolveConfig reads the configuration file and falls back to the flags.
// Any failure exits with status 1 before a request is made.
func resolveConfig(c *cli.Context) (config.Config, error) {
	file, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, cli.Exit(err.Error(), 1)
	}

	cfg, err := config.Resolve(file, config.Config{
		ClientID:  c.String("id"),
		Secret:    c.String("secret"),
		Playlists: c.StringSlice("playlists"),
		Exclude:   c.StringSlice("excludes"),
	})
	if errors.Is(err, config.ErrMissingCredentials) {
		return config.Config{}, cli.Exit(err.Error(), 1)
	}
	return cfg, err
}

func connect(c *cli.Context, cfg config.Config) (*porter.Porter, func(), error) {
	logger := loggerFrom(c)

	adapter, err := NewAdapter(c, cfg)
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), 1)
	}

	if err := adapter.Authenticate(c.Context); err != nil {
		return nil, nil, err
	}

	closeAdapter := func() {
		if err := adapter.Close(); err != nil {
			logger.Warn("error closing adapter", zap.Error(err))
		}
	}

	p := porter.NewPorter(adapter,
		porter.WithOutput(c.App.Writer),
		porter.WithLogger(logger),
		porter.WithOutputDir(c.String("output-dir")),
		porter.WithStrictCSV(c.Bool("strict-csv")),
	)
	return p, closeAdapter, nil
}

func listPlaylists(c *cli.Context, p *porter.Porter) ([]playlist.Playlist, error) {
	playlists, err := p.GetPlaylists(c.Context)
	if err != nil {
		return nil, err
	}
	if _, err := p.WritePlaylistListing(playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func getPlaylistOptions(p []playlist.Playlist) []huh.Option[string] {
	playlistOptions := make([]huh.Option[string], len(p))
	for i, pl := range p {
		playlistOptions[i] = huh.NewOption(fmt.Sprintf("%s (%d tracks)", pl.Name, pl.TrackCount), pl.ID)
	}
	return playlistOptions
}
