package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/core/ledger"
	"github.com/hay-kot/autoid/internal/core/validate"
	"github.com/hay-kot/autoid/internal/printer"
)

type LedgerCmd struct {
	flags  *Flags
	format string
}

// NewLedgerCmd creates a new ledger command
func NewLedgerCmd(flags *Flags) *LedgerCmd {
	return &LedgerCmd{flags: flags}
}

// Register adds the ledger command to the application
func (cmd *LedgerCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "ledger",
		Usage: "Inspect ids recorded with --ledger",
		Commands: []*cli.Command{
			{
				Name:        "ls",
				Usage:       "List issued ids",
				UsageText:   "autoid ledger ls [options]",
				Description: "Displays every recorded id with the time it was issued, oldest first.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       FormatText,
						Destination: &cmd.format,
					},
				},
				Action: cmd.runList,
			},
			{
				Name:        "has",
				Usage:       "Check whether ids were issued",
				UsageText:   "autoid ledger has <id>...",
				Description: "Reports whether each id is recorded in the ledger. Exits 1 if any is missing.",
				Action:      cmd.runHas,
			},
		},
	})

	return app
}

func (cmd *LedgerCmd) runList(ctx context.Context, c *cli.Command) error {
	if err := validateFormat(cmd.format); err != nil {
		return fmt.Errorf("invalid flags: %w", criterio.FieldErrors{{Field: "format", Err: err}})
	}

	entries, err := cmd.flags.Ledger.List(ctx)
	if err != nil {
		return fmt.Errorf("list ledger: %w", err)
	}

	out := c.Root().Writer
	if cmd.format == FormatJSON {
		if entries == nil {
			entries = []ledger.Entry{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Count int            `json:"count"`
			IDs   []ledger.Entry `json:"ids"`
		}{Count: len(entries), IDs: entries})
	}

	if len(entries) == 0 {
		printer.Ctx(ctx).Infof("No ids issued")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tISSUED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", e.ID, e.IssuedAt.Format(time.RFC3339))
	}

	return w.Flush()
}

func (cmd *LedgerCmd) runHas(ctx context.Context, c *cli.Command) error {
	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("at least one id is required")
	}

	var errs criterio.FieldErrorsBuilder
	for _, id := range ids {
		if err := validate.ID(id); err != nil {
			errs = errs.Append("id", err)
		}
	}
	if err := errs.ToError(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	p := printer.Ctx(ctx)
	missing := 0
	for _, id := range ids {
		found, err := cmd.flags.Ledger.Has(ctx, id)
		if err != nil {
			return fmt.Errorf("check ledger: %w", err)
		}
		if found {
			p.Successf("%s issued", id)
			continue
		}
		missing++
		p.Warnf("%s not issued", id)
	}

	if missing > 0 {
		return cli.Exit("", 1)
	}

	return nil
}
