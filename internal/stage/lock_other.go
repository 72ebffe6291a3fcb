// SPDX-License-Identifier: MPL-2.0

//go:build !linux

package stage

import (
	"errors"
	"fmt"
	"os"
)

// Lock is a lock file created exclusively. Without flock a crashed build
// leaves the file behind, and it must be removed by hand.
type Lock struct {
	path string
}

// AcquireLock creates the lock file at path. An existing file yields
// ErrStageLocked.
func AcquireLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrStageLocked)
		}
		return nil, fmt.Errorf("create lock file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close lock file %s: %w", path, err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file. Later calls are no-ops.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	err := os.Remove(l.path)
	l.path = ""
	return err
}
