// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, libraryCommand, genresCommand, matchCommand,
		analyzeCommand, createCommand, chatCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// authCommand handles the OAuth2 session lifecycle
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the authenticated user",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Forget stored tokens and cached library data",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogout,
			},
		},
	}
}

// libraryCommand handles the cached catalog
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Load and inspect the aggregated catalog",
		Commands: []*cli.Command{
			{
				Name:   "load",
				Usage:  "Crawl saved songs and playlists into the cache",
				Action: r.LibraryLoad,
			},
			{
				Name:  "playlists",
				Usage: "List your playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.LibraryPlaylists,
			},
			{
				Name:   "summary",
				Usage:  "Print the natural-language library summary",
				Action: r.LibrarySummary,
			},
			{
				Name:   "refresh",
				Usage:  "Drop the cached catalog so the next command reloads it",
				Action: r.LibraryRefresh,
			},
		},
	}
}

// genresCommand lists the genre taxonomy
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "genres",
		Usage:  "List the genre categories available for matching",
		Action: r.Genres,
	}
}

// matchCommand finds candidate tracks for an existing playlist
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "match",
		Usage: "Find library tracks that fit a playlist by genre",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "playlist",
				Aliases:  []string{"p"},
				Usage:    "Target playlist ID",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "genres",
				Aliases: []string{"g"},
				Usage:   "Genre categories to match (repeatable)",
			},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
			&cli.StringFlag{Name: "csv", Usage: "Write candidates to a CSV file"},
			&cli.BoolFlag{Name: "commit", Usage: "Append the candidates to the playlist"},
		},
		Action: r.Match,
	}
}

// analyzeCommand reports a playlist's genre distribution
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Show the genre distribution of a playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "playlist",
				Aliases:  []string{"p"},
				Usage:    "Playlist ID to analyze",
				Required: true,
			},
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
			&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
		},
		Action: r.Analyze,
	}
}

// createCommand builds a new playlist from genre matches
func createCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a playlist from library tracks matching the given genres",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Aliases:  []string{"n"},
				Usage:    "Name for the new playlist",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "genres",
				Aliases: []string{"g"},
				Usage:   "Genre categories to match (repeatable)",
			},
			&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
		},
		Action: r.Create,
	}
}

// chatCommand talks to the assistant
func chatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat about your library, or have a playlist built for you",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prompt",
				Usage: "One-shot playlist request instead of an interactive session",
			},
			&cli.BoolFlag{Name: "public", Usage: "Make created playlists public"},
		},
		Action: r.Chat,
	}
}

// exportCommand writes playlists to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all playlists to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent file writers", Value: 5},
			&cli.FloatFlag{Name: "rate", Usage: "Playlist fetches per second", Value: 5},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the interactive match workflow
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive playlist growing session",
		Action: r.TUI,
	}
}

// setupCommand initializes local configuration
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config.toml from the template",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
