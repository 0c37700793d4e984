// Package backoff implements exponential backoff with randomized jitter.
package backoff

import (
	"context"
	"math"
	"time"

	"github.com/hay-kot/autoid/pkg/randid"
)

// Config holds the backoff parameters.
type Config struct {
	Initial time.Duration `yaml:"initial" json:"initial"`
	Max     time.Duration `yaml:"max" json:"max"`
	Factor  float64       `yaml:"factor" json:"factor"`
	// Jitter is the fraction of the current delay that may be added or removed.
	Jitter float64 `yaml:"jitter" json:"jitter"`
}

// DefaultConfig returns the backoff parameters used when none are configured.
func DefaultConfig() Config {
	return Config{
		Initial: time.Second,
		Max:     time.Minute,
		Factor:  1.5,
		Jitter:  0.5,
	}
}

// Backoff produces successive delays. It is not safe for concurrent use.
type Backoff struct {
	cfg     Config
	rng     *randid.Generator
	current time.Duration
}

// New returns a Backoff using cfg. A nil rng uses the runtime source.
func New(cfg Config, rng *randid.Generator) *Backoff {
	if rng == nil {
		rng = randid.New(randid.Runtime)
	}
	return &Backoff{cfg: cfg, rng: rng}
}

// Next returns the next delay and advances the schedule. Delays saturate at
// the largest representable duration rather than overflowing.
func (b *Backoff) Next() time.Duration {
	base := b.current
	d := clamp(float64(base)+b.jitter(base), math.MaxInt64)

	limit := b.cfg.Max
	if limit <= 0 {
		limit = math.MaxInt64
	}
	if b.current == 0 {
		b.current = min(b.cfg.Initial, limit)
	} else {
		b.current = clamp(float64(b.current)*b.cfg.Factor, limit)
	}

	return d
}

// jitter returns a value in [-Jitter*base, Jitter*base).
func (b *Backoff) jitter(base time.Duration) float64 {
	if base == 0 || b.cfg.Jitter == 0 {
		return 0
	}
	return (b.rng.Float64()*2 - 1) * b.cfg.Jitter * float64(base)
}

// clamp converts ns to a Duration in [0, hi].
func clamp(ns float64, hi time.Duration) time.Duration {
	switch {
	case ns <= 0:
		return 0
	case ns >= float64(hi):
		return hi
	}
	return time.Duration(ns)
}

// Reset restarts the schedule so the next delay is zero.
func (b *Backoff) Reset() {
	b.current = 0
}

// Wait blocks for the next delay or until ctx is done.
func (b *Backoff) Wait(ctx context.Context) error {
	d := b.Next()
	if d == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Schedule returns the first n delays of a fresh schedule for cfg.
func Schedule(cfg Config, rng *randid.Generator, n int) []time.Duration {
	b := New(cfg, rng)
	out := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, b.Next())
	}
	return out
}
