// Package ledger records issued IDs so they are never handed out twice.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/autoid/pkg/randid"
)

// ErrExhausted is returned when every retry produced an issued ID.
var ErrExhausted = errors.New("retries exhausted")

// Entry is a single issued ID.
type Entry struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"issued_at"`
}

// Store defines persistence operations for issued IDs.
type Store interface {
	// Reserve records id and reports whether it was newly added.
	Reserve(ctx context.Context, id string) (bool, error)
	// Has reports whether id was already issued.
	Has(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Entry, error)
	Count(ctx context.Context) (int, error)
}

// Issuer generates IDs and reserves them in a Store, regenerating on collision.
type Issuer struct {
	store   Store
	gen     *randid.Generator
	length  int
	retries int
	log     zerolog.Logger
}

// NewIssuer creates an Issuer producing IDs of the given length.
func NewIssuer(store Store, gen *randid.Generator, length, retries int, log zerolog.Logger) *Issuer {
	return &Issuer{
		store:   store,
		gen:     gen,
		length:  length,
		retries: retries,
		log:     log,
	}
}

// Issue returns an ID that was not previously recorded in the store.
func (i *Issuer) Issue(ctx context.Context) (string, error) {
	for attempt := 0; attempt <= i.retries; attempt++ {
		id := i.gen.Generate(i.length)

		ok, err := i.store.Reserve(ctx, id)
		if err != nil {
			return "", fmt.Errorf("reserve id: %w", err)
		}
		if ok {
			return id, nil
		}

		i.log.Warn().Str("id", id).Int("attempt", attempt+1).Msg("id already issued, regenerating")
	}

	return "", fmt.Errorf("issue id after %d retries: %w", i.retries, ErrExhausted)
}
