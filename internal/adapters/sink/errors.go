package sink

import (
	"errors"
	"fmt"
)

// ErrPersist is the sentinel for artifact write failures.
var ErrPersist = errors.New("persist artifact")

// Remediation hints.
const (
	HintFileLocked = "close the file if it is open and retry"
	HintRetry      = "check that the output directory exists and is writable, then retry"
)

// PersistError reports an artifact that could not be written. Retryable.
type PersistError struct {
	Path string
	Hint string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("could not write %s: %s: %v", e.Path, e.Hint, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *PersistError) Unwrap() []error { return []error{ErrPersist, e.Err} }
