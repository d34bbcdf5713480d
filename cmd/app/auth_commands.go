package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/openfoundry/releases/cmd/app/commands"
	"github.com/openfoundry/releases/internal/app"
	"github.com/openfoundry/releases/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "issue-pat",
			Usage: "Issue a personal access token for a foundation account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "uid",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Foundation account uid to issue the token for",
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

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunIssuePAT(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("uid"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "revoke-pat",
			Usage: "Revoke a personal access token by id",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "uid",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Foundation account uid that owns the token",
				},
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Token ID (UUID)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunRevokePAT(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("uid"),
					cmd.String("id"),
				)
			},
		},
		{
			Name:  "list-pats",
			Usage: "List personal access tokens owned by a foundation account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "uid",
					Aliases:  []string{"u"},
					Required: true,
					Usage:    "Foundation account uid",
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

				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunListPATs(
					ctx,
					tokenUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("uid"),
					cmd.String("format"),
				)
			},
		},
	}
}
