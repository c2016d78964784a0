package sheet

import "errors"

// Sentinel kinds for sheet errors.
var (
	ErrOpen          = errors.New("open sheet")
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmpty         = errors.New("sheet has no header row")
	ErrFormat        = errors.New("unsupported sheet format")
)
