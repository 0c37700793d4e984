package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/core/ledger"
	"github.com/hay-kot/autoid/internal/core/validate"
)

type IDCmd struct {
	flags  *Flags
	count  int
	length int
	format string
	ledger bool
}

// NewIDCmd creates a new id command
func NewIDCmd(flags *Flags) *IDCmd {
	return &IDCmd{flags: flags}
}

// Register adds the id command to the application
func (cmd *IDCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "id",
		Usage:     "Generate random alphanumeric IDs",
		UsageText: "autoid id [options]",
		Description: `Prints random IDs drawn uniformly from A-Z, a-z and 0-9.

IDs are 20 characters long unless --length or the length config option says
otherwise. With --ledger every ID is recorded in the data directory and an ID
that was already issued is regenerated.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of ids to generate",
				Value:       1,
				Destination: &cmd.count,
			},
			&cli.IntFlag{
				Name:        "length",
				Aliases:     []string{"l"},
				Usage:       "id length (defaults to config length)",
				Destination: &cmd.length,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       FormatText,
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "ledger",
				Usage:       "record ids in the ledger and never reissue one",
				Destination: &cmd.ledger,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *IDCmd) validateFlags() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.Count(cmd.count); err != nil {
		errs = errs.Append("count", err)
	}
	if err := validate.Length(cmd.length); err != nil {
		errs = errs.Append("length", err)
	}
	if err := validateFormat(cmd.format); err != nil {
		errs = errs.Append("format", err)
	}

	return errs.ToError()
}

func (cmd *IDCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cmd.length == 0 {
		cmd.length = cfg.Length
	}

	if err := cmd.validateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	next := func(context.Context) (string, error) {
		return cmd.flags.Generator.Generate(cmd.length), nil
	}
	if cmd.ledger || cfg.Ledger.Enabled {
		logger := log.With().Str("component", "ledger").Logger()
		issuer := ledger.NewIssuer(cmd.flags.Ledger, cmd.flags.Generator, cmd.length, cfg.Ledger.Retries, logger)
		next = issuer.Issue
	}

	ids := make([]string, 0, cmd.count)
	for i := 0; i < cmd.count; i++ {
		id, err := next(ctx)
		if err != nil {
			return fmt.Errorf("generate id: %w", err)
		}
		ids = append(ids, id)
	}

	log.Debug().
		Int("count", len(ids)).
		Int("length", cmd.length).
		Str("source", cfg.Source).
		Msg("generated ids")

	out := c.Root().Writer
	if cmd.format == FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			IDs []string `json:"ids"`
		}{IDs: ids})
	}

	for _, id := range ids {
		if _, err := fmt.Fprintln(out, id); err != nil {
			return err
		}
	}

	return nil
}
