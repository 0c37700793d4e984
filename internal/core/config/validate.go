package config

import (
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/autoid/internal/core/validate"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.OneOf(c.Source, SourceRuntime, SourceSeeded, SourceCrypto); err != nil {
		errs = errs.Append("source", err)
	}

	if err := validate.Length(c.Length); err != nil {
		errs = errs.Append("length", err)
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("data directory cannot be empty"))
	}

	if c.Ledger.Retries < 1 {
		errs = errs.Append("ledger.retries", fmt.Errorf("must be at least 1"))
	}

	b := c.Backoff
	if b.Initial < 0 {
		errs = errs.Append("backoff.initial", fmt.Errorf("cannot be negative"))
	}
	if b.Max < b.Initial {
		errs = errs.Append("backoff.max", fmt.Errorf("must be at least backoff.initial (%s)", b.Initial))
	}
	if b.Factor < 1 {
		errs = errs.Append("backoff.factor", fmt.Errorf("must be at least 1, got %g", b.Factor))
	}
	if b.Jitter < 0 || b.Jitter > 1 {
		errs = errs.Append("backoff.jitter", fmt.Errorf("must be between 0 and 1, got %g", b.Jitter))
	}

	return errs.ToError()
}

// Warnings returns non-fatal issues with the configuration.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Source == SourceSeeded {
		warnings = append(warnings, ValidationWarning{
			Category: "Source",
			Item:     "seed",
			Message:  fmt.Sprintf("seeded source with seed %d produces the same IDs on every run", c.Seed),
		})
	}

	if c.Source != SourceSeeded && c.Seed != 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Source",
			Item:     "seed",
			Message:  fmt.Sprintf("seed is ignored by the %s source", c.Source),
		})
	}

	if c.Length < 12 {
		warnings = append(warnings, ValidationWarning{
			Category: "Length",
			Message:  fmt.Sprintf("IDs of length %d collide easily", c.Length),
		})
	}

	return warnings
}
