// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/urfave/cli/v3"
)

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
			Value: true,
		},
	}
}

// setupCommand handles setup operations for the library database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file, initialize the database and seed the default playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// playlistsCommand handles playlist browsing and editing
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  jsonFlags(),
				Action: r.PlaylistsList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist's tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags:  jsonFlags(),
				Action: r.PlaylistsShow,
			},
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				},
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "add",
				Usage: "Add a track to a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Playlist ID or name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "track",
						Aliases:  []string{"t"},
						Usage:    "Track ID",
						Required: true,
					},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:  "export",
				Usage: "Export a playlist, or every playlist with --all",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "playlist",
						Aliases: []string{"p"},
						Usage:   "Playlist ID or name",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist with a manifest",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Output directory for --all (defaults to spindle_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent exports for --all",
						Value: 4,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (csv, md, m3u, audpl, json, txt)",
						Value:   string(formatter.Markdown),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (defaults to the playlist name)",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// historyCommand prints the recently played list
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"recent"},
		Usage:   "Show recently played tracks, most recent first",
		Flags:   jsonFlags(),
		Action:  r.History,
	}
}

// searchCommand searches every playlist
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search tracks by title, artist or album",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: append(jsonFlags(), &cli.BoolFlag{
			Name:  "fuzzy",
			Usage: "Rank approximate matches instead of substring search",
		}),
		Action: r.Search,
	}
}

// albumCommand shows an album page
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Show the tracks of an album",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
		},
		Flags:  jsonFlags(),
		Action: r.Album,
	}
}

// artistCommand shows an artist page
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Show an artist's top tracks and albums",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
		},
		Flags:  jsonFlags(),
		Action: r.Artist,
	}
}

// playCommand plays a track, optionally following the simulated transport
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play a track, queueing the rest of its playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "track",
				Aliases:  []string{"t"},
				Usage:    "Track ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "playlist",
				Aliases: []string{"p"},
				Usage:   "Playlist ID or name to queue from",
			},
			&cli.BoolFlag{
				Name:    "follow",
				Aliases: []string{"f"},
				Usage:   "Keep running and report each track until the queue ends",
			},
			&cli.DurationFlag{
				Name:  "for",
				Usage: "Stop following after this long (0 runs until the queue ends)",
			},
		},
		Action: r.Play,
	}
}

// tuiCommand returns the top-level TUI command for the interactive player.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal player",
		Action:  r.TUI,
	}
}
