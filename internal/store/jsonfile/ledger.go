// Package jsonfile persists issued IDs in a JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hay-kot/autoid/internal/core/ledger"
)

// LedgerFile is the root JSON structure stored on disk.
type LedgerFile struct {
	IDs map[string]ledger.Entry `json:"ids"`
}

// LedgerStore implements ledger.Store using a JSON file for persistence.
type LedgerStore struct {
	path string
	lock fileLock
	mu   sync.RWMutex
	now  func() time.Time
}

// NewLedgerStore creates a new JSON file ledger at the given path.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{
		path: path,
		lock: fileLock{path: path + ".lock"},
		now:  time.Now,
	}
}

// Reserve records id. It returns false without modifying the file if id is
// already present.
func (s *LedgerStore) Reserve(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added bool
	err := s.lock.withExclusive(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		if _, exists := file.IDs[id]; exists {
			return nil
		}

		file.IDs[id] = ledger.Entry{ID: id, IssuedAt: s.now()}
		added = true
		return s.save(file)
	})
	if err != nil {
		return false, err
	}

	return added, nil
}

// Has reports whether id is recorded in the ledger.
func (s *LedgerStore) Has(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found bool
	err := s.lock.withShared(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		_, found = file.IDs[id]
		return nil
	})

	return found, err
}

// List returns all entries ordered by issue time.
func (s *LedgerStore) List(ctx context.Context) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []ledger.Entry
	err := s.lock.withShared(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		for _, e := range file.IDs {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b ledger.Entry) int {
		if c := a.IssuedAt.Compare(b.IssuedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return entries, nil
}

// Count returns the number of issued IDs.
func (s *LedgerStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.lock.withShared(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}
		n = len(file.IDs)
		return nil
	})

	return n, err
}

// load reads the ledger from disk.
// Returns an empty LedgerFile if the file doesn't exist.
func (s *LedgerStore) load() (LedgerFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return LedgerFile{IDs: make(map[string]ledger.Entry)}, nil
		}
		return LedgerFile{}, err
	}

	if len(data) == 0 {
		return LedgerFile{IDs: make(map[string]ledger.Entry)}, nil
	}

	var file LedgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		return LedgerFile{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if file.IDs == nil {
		file.IDs = make(map[string]ledger.Entry)
	}

	return file, nil
}

func (s *LedgerStore) save(file LedgerFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.path, data)
}
