// SPDX-License-Identifier: MPL-2.0

//go:build linux

package stage

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock is an exclusive flock held on a stage directory's lock file. The
// kernel drops it when the descriptor closes, including on a crash, so an
// orphaned lock file is harmless.
type Lock struct {
	file *os.File
}

// AcquireLock takes the lock at path without blocking. A lock already held by
// another process yields ErrStageLocked.
func AcquireLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%s: %w", path, ErrStageLocked)
		}
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	return &Lock{file: f}, nil
}

// Release unlocks and closes the lock file. Later calls are no-ops.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil
	return errors.Join(unlockErr, closeErr)
}
