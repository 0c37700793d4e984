package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/core/validate"
	"github.com/hay-kot/autoid/pkg/backoff"
)

type BackoffCmd struct {
	flags    *Flags
	attempts int
}

// NewBackoffCmd creates a new backoff command
func NewBackoffCmd(flags *Flags) *BackoffCmd {
	return &BackoffCmd{flags: flags}
}

// Register adds the backoff command to the application
func (cmd *BackoffCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "backoff",
		Usage:     "Print a jittered exponential backoff schedule",
		UsageText: "autoid backoff [options]",
		Description: `Prints the delays a retry loop would wait using the backoff section of the
config. The first attempt never waits; each later delay is the current base
plus or minus jitter, and the base grows by factor up to max.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "attempts",
				Aliases:     []string{"n"},
				Usage:       "number of attempts to show",
				Value:       8,
				Destination: &cmd.attempts,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *BackoffCmd) run(_ context.Context, c *cli.Command) error {
	var errs criterio.FieldErrorsBuilder
	if err := validate.Count(cmd.attempts); err != nil {
		errs = errs.Append("attempts", err)
	}
	if err := errs.ToError(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	delays := backoff.Schedule(cmd.flags.Config.Backoff, cmd.flags.Generator, cmd.attempts)

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ATTEMPT\tDELAY")
	for i, d := range delays {
		_, _ = fmt.Fprintf(w, "%d\t%s\n", i+1, d)
	}

	return w.Flush()
}
