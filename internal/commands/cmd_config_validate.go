package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/core/config"
	"github.com/hay-kot/autoid/internal/printer"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate configuration file",
				UsageText: "autoid config validate [options]",
				Description: `Loads the configuration file without failing on bad values, then lists the
resolved settings, every invalid field and warnings such as a reproducible
seeded source. Exits 1 if any field is invalid.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       FormatText,
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// configReport is the outcome of validating a loaded configuration.
type configReport struct {
	Valid    bool                       `json:"valid"`
	Path     string                     `json:"path"`
	Resolved resolvedConfig             `json:"resolved"`
	Errors   []configFieldError         `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

type resolvedConfig struct {
	Source  string `json:"source"`
	Seed    uint64 `json:"seed,omitempty"`
	Length  int    `json:"length"`
	Ledger  string `json:"ledger"`
	Backoff string `json:"backoff"`
}

type configFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if err := validateFormat(cmd.format); err != nil {
		return fmt.Errorf("invalid flags: %w", criterio.FieldErrors{{Field: "format", Err: err}})
	}

	report := newConfigReport(cfg, cmd.flags.ConfigPath)

	if cmd.format == FormatJSON {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printConfigReport(printer.Ctx(ctx), report)
	}

	if !report.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func newConfigReport(cfg *config.Config, path string) configReport {
	ledgerState := "disabled"
	if cfg.Ledger.Enabled {
		ledgerState = cfg.LedgerFile()
	}

	report := configReport{
		Path: path,
		Resolved: resolvedConfig{
			Source: cfg.Source,
			Length: cfg.Length,
			Ledger: ledgerState,
			Backoff: fmt.Sprintf("%s..%s x%g ±%g",
				cfg.Backoff.Initial, cfg.Backoff.Max, cfg.Backoff.Factor, cfg.Backoff.Jitter),
		},
		Warnings: cfg.Warnings(),
	}
	if cfg.Source == config.SourceSeeded {
		report.Resolved.Seed = cfg.Seed
	}

	for _, fe := range fieldErrors(cfg.Validate()) {
		report.Errors = append(report.Errors, configFieldError{Field: fe.Field, Message: fe.Err.Error()})
	}
	report.Valid = len(report.Errors) == 0

	return report
}

// fieldErrors flattens a validation error into per-field errors.
func fieldErrors(err error) criterio.FieldErrors {
	if err == nil {
		return nil
	}
	var fieldErrs criterio.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs
	}
	return criterio.FieldErrors{{Err: err}}
}

func printConfigReport(p *printer.Printer, r configReport) {
	p.Section("Resolved")
	p.Printf("  source   %s", r.Resolved.Source)
	if r.Resolved.Seed != 0 {
		p.Printf("  seed     %d", r.Resolved.Seed)
	}
	p.Printf("  length   %d", r.Resolved.Length)
	p.Printf("  ledger   %s", r.Resolved.Ledger)
	p.Printf("  backoff  %s", r.Resolved.Backoff)
	p.Printf("")

	for _, fe := range r.Errors {
		label := fe.Field
		if label == "" {
			label = "config"
		}
		p.FailItem(label, fe.Message)
	}
	for _, w := range r.Warnings {
		label := w.Category
		if w.Item != "" {
			label += " " + w.Item
		}
		p.WarnItem(label, w.Message)
	}
	if len(r.Errors)+len(r.Warnings) > 0 {
		p.Printf("")
	}

	switch {
	case !r.Valid:
		p.Errorf("%d error(s), %d warning(s)", len(r.Errors), len(r.Warnings))
	case len(r.Warnings) > 0:
		p.Successf("Configuration is valid (%d warning(s))", len(r.Warnings))
	default:
		p.Successf("Configuration is valid")
	}
}
