package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/core/validate"
)

type FloatCmd struct {
	flags  *Flags
	count  int
	format string
}

// NewFloatCmd creates a new float command
func NewFloatCmd(flags *Flags) *FloatCmd {
	return &FloatCmd{flags: flags}
}

// Register adds the float command to the application
func (cmd *FloatCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "float",
		Usage:       "Generate uniform random doubles in [0, 1)",
		UsageText:   "autoid float [options]",
		Description: "Prints doubles drawn from a 32-bit uniform value divided by 2^32.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of values to generate",
				Value:       1,
				Destination: &cmd.count,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       FormatText,
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FloatCmd) run(ctx context.Context, c *cli.Command) error {
	var errs criterio.FieldErrorsBuilder
	if err := validate.Count(cmd.count); err != nil {
		errs = errs.Append("count", err)
	}
	if err := validateFormat(cmd.format); err != nil {
		errs = errs.Append("format", err)
	}
	if err := errs.ToError(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	values := make([]float64, cmd.count)
	for i := range values {
		values[i] = cmd.flags.Generator.Float64()
	}

	log.Debug().Int("count", len(values)).Str("source", cmd.flags.Config.Source).Msg("generated doubles")

	out := c.Root().Writer
	if cmd.format == FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Values []float64 `json:"values"`
		}{Values: values})
	}

	for _, v := range values {
		if _, err := fmt.Fprintln(out, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return err
		}
	}

	return nil
}
