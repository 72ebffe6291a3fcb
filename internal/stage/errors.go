// SPDX-License-Identifier: MPL-2.0

package stage

import (
	"errors"
	"fmt"
)

var (
	// ErrStageLocked is returned when another build holds the stage directory.
	ErrStageLocked = errors.New("stage directory is locked by another build")
	// ErrChecksumMismatch is wrapped by ChecksumError.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrFetchFailed is wrapped by FetchError.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrPatchFailed is wrapped by PatchError.
	ErrPatchFailed = errors.New("patch failed")
	// ErrUnsafeArchive is returned for archive entries that escape the stage.
	ErrUnsafeArchive = errors.New("archive entry escapes the source directory")
)

type (
	// ChecksumError reports a downloaded or patch file whose SHA-256 differs
	// from the recipe.
	ChecksumError struct {
		File string
		Want string
		Got  string
	}

	// FetchError reports a source that could not be retrieved.
	FetchError struct {
		Source string
		Err    error
	}

	// PatchError reports a patch that could not be verified or applied.
	PatchError struct {
		File string
		Err  error
	}
)

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("sha256 of %s is %s, want %s", e.File, e.Got, e.Want)
}

// Unwrap returns ErrChecksumMismatch.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

// Unwrap returns the sentinel and the cause.
func (e *FetchError) Unwrap() []error { return []error{ErrFetchFailed, e.Err} }

func (e *PatchError) Error() string {
	return fmt.Sprintf("patch %s: %v", e.File, e.Err)
}

// Unwrap returns the sentinel and the cause.
func (e *PatchError) Unwrap() []error { return []error{ErrPatchFailed, e.Err} }
