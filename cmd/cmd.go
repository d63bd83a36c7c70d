// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the database and config file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize config file and database, run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// libraryCommand manages remote library registrations
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Manage remote music libraries",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register a remote library and store its credentials",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Display name for the library",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "host",
						Usage:    "Server URL, e.g. https://music.example.com",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Server port (omit when the host URL carries it)",
						Value: -1,
					},
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password, hashed before it leaves the process",
						Required: true,
					},
				},
				Action: r.LibraryAdd,
			},
			{
				Name:  "list",
				Usage: "List registered libraries",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
				},
				Action: r.LibraryList,
			},
		},
	}
}

// syncCommand runs a sync pass
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Mirror remote libraries into the local cache",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "library",
				Aliases: []string{"l"},
				Usage:   "Sync only this library id",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the sync result as JSON",
			},
		},
		Action: r.Sync,
	}
}

// serveCommand starts the local media endpoint
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve cached covers and audio over HTTP",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}
