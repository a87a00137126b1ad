// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by commands that read or write the config file.
func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// outputFlags are shared by commands that print catalog entities.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Save API response locally",
		},
	}
}

// setupCommand handles setup operations for the local cache database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize the cache database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles browser session configuration
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the browser session used for API requests",
		Commands: []*cli.Command{
			{
				Name:  "curl",
				Usage: "Configure session headers from a browser cURL command",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.AuthCurl,
			},
			{
				Name:   "status",
				Usage:  "Check whether the configured session is accepted by the API",
				Action: r.AuthStatus,
			},
			{
				Name:   "open",
				Usage:  "Open the Chosic site in a browser to capture a session cURL",
				Action: r.AuthOpen,
			},
		},
	}
}

// trackCommand fetches a single track
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Fetch a track by ID or open.spotify.com URL",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  outputFlags(),
		Action: r.Track,
	}
}

// artistsCommand fetches one or more artists
func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Fetch artists by comma-separated IDs or URLs",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "ids"},
		},
		Flags:  outputFlags(),
		Action: r.Artists,
	}
}

// searchCommand searches the catalog
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:  "type",
				Usage: "Entity type to search for (track or artist)",
				Value: "track",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results to return",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Fetch every page of results",
			},
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export results to a file (csv, markdown, or text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Base path or directory for exported files",
			},
		),
		Action: r.Search,
	}
}

// recommendCommand fetches seeded recommendations
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Fetch recommendations seeded by tracks or artists",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:  "tracks",
				Usage: "Comma-separated seed track IDs or URLs",
			},
			&cli.StringFlag{
				Name:  "artists",
				Usage: "Comma-separated seed artist IDs or URLs",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results to return",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Fetch every page of results",
			},
		),
		Action: r.Recommend,
	}
}

// featuresCommand fetches audio features for a track
func featuresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "features",
		Usage: "Fetch audio features for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  outputFlags(),
		Action: r.Features,
	}
}

// releasesCommand fetches new releases for a genre
func releasesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "releases",
		Usage: "Fetch new releases for a genre",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "genre"},
		},
		Flags: append(outputFlags(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of releases to return",
				Value: 20,
			},
		),
		Action: r.Releases,
	}
}

// playlistsCommand fetches top playlists for an artist or genre
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "Fetch top playlists for an artist or genre",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist ID or URL",
			},
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Genre name",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to return",
				Value: 20,
			},
		),
		Action: r.Playlists,
	}
}

// genresCommand fetches the genre label map
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Fetch the genre label map",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:  "file",
				Usage: "Load the genre map from a local JSON file instead of the API",
			},
		),
		Action: r.Genres,
	}
}

// downloadCommand downloads track assets
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download preview audio and cover art for one or more tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "ids"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory (default from config)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent download workers",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Metadata fetches per second",
			},
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "Overwrite files that already exist",
			},
		},
		Action: r.Download,
	}
}

// cacheCommand lists locally cached entities
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local cache database",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List cached tracks",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Filter by artist name",
					},
				),
				Action: r.CacheTracks,
			},
			{
				Name:  "artists",
				Usage: "List cached artists",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Filter by genre",
					},
				),
				Action: r.CacheArtists,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET against the catalog API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "endpoint"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "params",
						Aliases: []string{"p"},
						Usage:   "Query parameters as JSON object",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive search and download.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for catalog search and asset download",
		Action:  r.TUI,
	}
}
