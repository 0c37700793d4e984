package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/commands/doctor"
	"github.com/hay-kot/autoid/internal/core/validate"
	"github.com/hay-kot/autoid/internal/printer"
)

// uniformityBuckets is the number of equal-width buckets for the doubles test.
const uniformityBuckets = 10

type CheckCmd struct {
	flags   *Flags
	format  string
	samples int
}

func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Aliases:   []string{"doctor"},
		Usage:     "Self-test the configured generator",
		UsageText: "autoid check [options]",
		Description: `Validates configuration, then samples the configured entropy source and checks
ID length, alphabet membership, collisions and chi-squared uniformity of both
doubles and alphabet indexes. Exits 1 if any check fails.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       FormatText,
				Destination: &cmd.format,
			},
			&cli.IntFlag{
				Name:        "samples",
				Usage:       "values drawn per check",
				Value:       100_000,
				Destination: &cmd.samples,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	var errs criterio.FieldErrorsBuilder
	if err := validate.Count(cmd.samples); err != nil {
		errs = errs.Append("samples", err)
	}
	if err := validateFormat(cmd.format); err != nil {
		errs = errs.Append("format", err)
	}
	if err := errs.ToError(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	gen := cmd.flags.Generator
	checks := []doctor.Check{
		doctor.NewConfigCheck(cmd.flags.Config),
		doctor.NewShapeCheck(gen, cmd.samples),
		doctor.NewCollisionCheck(gen, cmd.samples),
		doctor.NewUniformityCheck(gen, cmd.samples, uniformityBuckets),
	}
	if cmd.flags.Config != nil && cmd.flags.Ledger != nil {
		checks = append(checks, doctor.NewLedgerCheck(cmd.flags.Ledger, cmd.flags.Config.LedgerFile()))
	}

	results := doctor.RunAll(ctx, checks)

	passed, warned, failed := doctor.Summary(results)
	log.Debug().Int("passed", passed).Int("warned", warned).Int("failed", failed).Msg("checks complete")

	if cmd.format == FormatJSON {
		if err := cmd.outputJSON(c, results); err != nil {
			return err
		}
	} else {
		cmd.outputText(ctx, results)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}

	return nil
}

func (cmd *CheckCmd) outputJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func (cmd *CheckCmd) outputText(ctx context.Context, results []doctor.Result) {
	p := printer.Ctx(ctx)

	for _, result := range results {
		p.Section(result.Name)

		for _, item := range result.Items {
			switch item.Status {
			case doctor.StatusPass:
				p.CheckItem(item.Label, item.Detail)
			case doctor.StatusWarn:
				p.WarnItem(item.Label, item.Detail)
			case doctor.StatusFail:
				p.FailItem(item.Label, item.Detail)
			}
		}

		p.Printf("")
	}

	passed, warned, failed := doctor.Summary(results)
	p.Printf("Summary: %d passed, %d warnings, %d failed", passed, warned, failed)
}
