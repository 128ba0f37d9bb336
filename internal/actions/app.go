package actions

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"playlistsnapshot/internal/adapters"
	"playlistsnapshot/internal/config"
	"playlistsnapshot/internal/porter"
)

const loggerKey = "logger"

// NewApp builds the playlistsnapshot command line application
func NewApp() *cli.App {
	return &cli.App{
		Name:  "playlistsnapshot",
		Usage: "Export a snapshot of your Spotify playlists to a CSV file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "id",
				Aliases: []string{"i"},
				Usage:   "client ID of your Spotify Web API application",
				EnvVars: []string{"SPOTIFY_ID"},
			},
			&cli.StringFlag{
				Name:    "secret",
				Aliases: []string{"s"},
				Usage:   "client secret of your Spotify Web API application",
				EnvVars: []string{"SPOTIFY_SECRET"},
			},
			&cli.StringSliceFlag{
				Name:    "playlists",
				Aliases: []string{"l"},
				Usage:   "playlist IDs to export (repeat or separate with commas); all playlists when empty",
			},
			&cli.StringSliceFlag{
				Name:    "excludes",
				Aliases: []string{"x"},
				Usage:   "playlist IDs to skip (repeat or separate with commas)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file",
				Value:   config.DefaultFile,
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "directory the listing and export files are written to",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "token-cache",
				Usage: "file the Spotify OAuth token is cached in; empty disables caching",
				Value: adapters.DefaultTokenCache,
			},
			&cli.BoolFlag{
				Name:  "strict-csv",
				Usage: "quote fields following RFC 4180 instead of the legacy format",
			},
			&cli.BoolFlag{
				Name:  "pick",
				Usage: "choose interactively which playlists to export when none are configured",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print debug logs",
			},
		},
		Before: setupLogger,
		After:  syncLogger,
		Action: Snapshot,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists and write them to " + porter.ListingFile,
				Action: List,
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	if _, ok := c.App.Metadata[loggerKey]; ok {
		return nil
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if c.Bool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return cli.Exit("error creating logger: "+err.Error(), 1)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[loggerKey] = logger
	return nil
}

func syncLogger(c *cli.Context) error {
	_ = loggerFrom(c).Sync()
	return nil
}

func loggerFrom(c *cli.Context) *zap.Logger {
	if l, ok := c.App.Metadata[loggerKey].(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
