package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/autoid/internal/commands"
	"github.com/hay-kot/autoid/internal/core/config"
	"github.com/hay-kot/autoid/internal/printer"
	"github.com/hay-kot/autoid/internal/store/jsonfile"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	if err := setupLogger("info", ""); err != nil {
		panic(err)
	}

	var (
		p     = printer.New(os.Stderr)
		ctx   = printer.NewContext(context.Background(), p)
		flags = &commands.Flags{}
	)

	app := &cli.Command{
		Name:      "autoid",
		Usage:     "Generate random document IDs and uniform doubles",
		UsageText: "autoid [global options] command [command options]",
		Description: `autoid prints 20 character alphanumeric IDs suitable for document keys and
uniformly distributed doubles in [0, 1).

Use --seed for reproducible output in fixtures. Run 'autoid check' to self-test
the configured entropy source.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("AUTOID_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (optional)",
				Sources:     cli.EnvVars("AUTOID_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("AUTOID_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("AUTOID_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.Uint64Flag{
				Name:        "seed",
				Usage:       "seed a deterministic source (overrides config source)",
				Sources:     cli.EnvVars("AUTOID_SEED"),
				Destination: &flags.Seed,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := setupLogger(flags.LogLevel, flags.LogFile); err != nil {
				return ctx, err
			}

			// config validate reports an invalid config instead of failing here.
			inspectOnly := c.Args().First() == "config"

			load := config.Load
			if inspectOnly {
				load = config.Read
			}

			cfg, err := load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if c.IsSet("seed") {
				cfg.UseSeed(flags.Seed)
			}
			flags.Config = cfg

			if inspectOnly {
				return ctx, nil
			}

			gen, err := cfg.Generator()
			if err != nil {
				return ctx, fmt.Errorf("create generator: %w", err)
			}
			flags.Generator = gen
			flags.Ledger = jsonfile.NewLedgerStore(cfg.LedgerFile())

			log.Debug().
				Str("source", cfg.Source).
				Str("config", flags.ConfigPath).
				Str("data_dir", cfg.DataDir).
				Msg("configured generator")

			return ctx, nil
		},
	}

	app = commands.NewIDCmd(flags).Register(app)
	app = commands.NewFloatCmd(flags).Register(app)
	app = commands.NewCheckCmd(flags).Register(app)
	app = commands.NewBackoffCmd(flags).Register(app)
	app = commands.NewLedgerCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		printer.Ctx(ctx).FatalError(err)
		exitCode = 1
	}

	os.Exit(exitCode)
}

func setupLogger(level string, logFile string) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}

	var output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}

	if logFile != "" {
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		output = io.MultiWriter(
			zerolog.ConsoleWriter{Out: os.Stderr},
			file,
		)
	}

	log.Logger = log.Output(output).Level(parsedLevel)

	return nil
}
