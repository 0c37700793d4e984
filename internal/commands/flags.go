package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/autoid/internal/core/config"
	"github.com/hay-kot/autoid/internal/core/ledger"
	"github.com/hay-kot/autoid/internal/core/validate"
	"github.com/hay-kot/autoid/pkg/randid"
)

// Output formats shared by commands.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Seed       uint64

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Generator draws from the configured entropy source
	Generator *randid.Generator

	// Ledger records issued IDs when ledger mode is enabled
	Ledger ledger.Store
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autoid", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "autoid")
}

func validateFormat(format string) error {
	return validate.OneOf(format, FormatText, FormatJSON)
}
