package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/openfoundry/releases/cmd/app/commands"
	"github.com/openfoundry/releases/internal/app"
	"github.com/openfoundry/releases/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "regenerate-keys-files",
			Usage: "Rebuild the KEYS artifact for every committee",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "uid",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Administrator uid to run the regeneration as",
				},
				&cli.IntFlag{
					Name:    "concurrency",
					Aliases: []string{"j"},
					Value:   4,
					Usage:   "Number of committees to regenerate in parallel",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				storageService, err := container.StorageService(ctx)
				if err != nil {
					return err
				}

				return commands.RunRegenerateKeysFiles(
					ctx,
					storageService,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("uid"),
					int(cmd.Int("concurrency")),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "delete-committee-keys",
			Usage: "Unlink every key from a committee and purge orphaned records",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "committee",
					Aliases:  []string{"c"},
					Required: true,
					Usage:    "Committee name",
				},
				&cli.StringFlag{
					Name:     "uid",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Administrator uid to run the purge as",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				storageService, err := container.StorageService(ctx)
				if err != nil {
					return err
				}

				return commands.RunDeleteCommitteeKeys(
					ctx,
					storageService,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("committee"),
					cmd.String("uid"),
					cmd.String("format"),
				)
			},
		},
	}
}
