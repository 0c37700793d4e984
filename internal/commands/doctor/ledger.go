package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/hay-kot/autoid/internal/core/ledger"
	"github.com/hay-kot/autoid/internal/core/validate"
)

// LedgerCheck inspects the issued ID ledger for unreadable or malformed entries.
type LedgerCheck struct {
	store ledger.Store
	path  string
}

// NewLedgerCheck creates a new ledger check for the store persisted at path.
func NewLedgerCheck(store ledger.Store, path string) *LedgerCheck {
	return &LedgerCheck{store: store, path: path}
}

func (c *LedgerCheck) Name() string {
	return "Ledger"
}

func (c *LedgerCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  "Ledger file",
			Status: StatusPass,
			Detail: "no ids issued yet",
		})
		return result
	}

	count, err := c.store.Count(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Read ledger",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	entries, err := c.store.List(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Read ledger",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	var malformed []ledger.Entry
	for _, e := range entries {
		if validate.ID(e.ID) != nil {
			malformed = append(malformed, e)
		}
	}

	if len(malformed) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "Ledger readable",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d ids issued", count),
		})
		return result
	}

	for _, e := range malformed {
		result.Items = append(result.Items, CheckItem{
			Label:  fmt.Sprintf("%q", e.ID),
			Status: StatusWarn,
			Detail: validate.ID(e.ID).Error(),
		})
	}

	return result
}
