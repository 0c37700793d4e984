// Package validate provides shared validation functions.
package validate

import (
	"fmt"

	"github.com/hay-kot/autoid/pkg/randid"
)

const (
	// MaxLength is the longest ID autoid will generate.
	MaxLength = 256

	// MaxCount caps how many values a single command draws.
	MaxCount = 10_000_000
)

// Count validates a requested number of values is within [1, MaxCount].
func Count(n int) error {
	if n < 1 || n > MaxCount {
		return fmt.Errorf("must be between 1 and %d, got %d", MaxCount, n)
	}
	return nil
}

// Length validates an ID length is within [1, MaxLength].
func Length(n int) error {
	if n < 1 || n > MaxLength {
		return fmt.Errorf("must be between 1 and %d, got %d", MaxLength, n)
	}
	return nil
}

// ID validates s is a non-empty string over the ID alphabet.
func ID(s string) error {
	if s == "" {
		return fmt.Errorf("id is required")
	}
	if len(s) > MaxLength {
		return fmt.Errorf("id is longer than %d characters", MaxLength)
	}
	if !randid.InAlphabet(s) {
		return fmt.Errorf("id %q contains characters outside A-Z, a-z, 0-9", s)
	}
	return nil
}

// OneOf validates value is one of allowed.
func OneOf(value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("unknown value %q (want one of %v)", value, allowed)
}
