package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/openfoundry/releases/cmd/app/commands"
	"github.com/openfoundry/releases/internal/app"
	committeeDomain "github.com/openfoundry/releases/internal/committee/domain"
	"github.com/openfoundry/releases/internal/config"
)

func getCommitteeCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-committee",
			Usage: "Register a new committee",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Committee name (lowercase, e.g., 'tooling')",
				},
				&cli.StringFlag{
					Name:    "display-name",
					Aliases: []string{"d"},
					Usage:   "Human-readable committee name (defaults to the name)",
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

				committeeUseCase, err := container.CommitteeUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateCommittee(
					ctx,
					committeeUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("display-name"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "add-member",
			Usage: "Record an account's role within a committee",
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
					Usage:    "Foundation account uid",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   string(committeeDomain.RoleMember),
					Usage:   "Role within the committee: 'member' or 'committer'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				committeeUseCase, err := container.CommitteeUseCase()
				if err != nil {
					return err
				}

				return commands.RunAddMember(
					ctx,
					committeeUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("committee"),
					cmd.String("uid"),
					cmd.String("role"),
				)
			},
		},
		{
			Name:  "remove-member",
			Usage: "Delete an account's membership record from a committee",
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
					Usage:    "Foundation account uid",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				committeeUseCase, err := container.CommitteeUseCase()
				if err != nil {
					return err
				}

				return commands.RunRemoveMember(
					ctx,
					committeeUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("committee"),
					cmd.String("uid"),
				)
			},
		},
	}
}
