package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// fileLock serializes access to a JSON file across processes.
type fileLock struct {
	path string
}

// withShared executes fn while holding a shared (read) file lock.
// Multiple processes can hold shared locks simultaneously.
func (l fileLock) withShared(fn func() error) error {
	return l.with(syscall.LOCK_SH, fn)
}

// withExclusive executes fn while holding an exclusive (write) file lock.
func (l fileLock) withExclusive(fn func() error) error {
	return l.with(syscall.LOCK_EX, fn)
}

func (l fileLock) with(lockType int, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// writeAtomic writes data to path via a temp file and rename.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
