package loader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is the kind of every per-record parse failure.
var ErrParse = errors.New("parse check-in record")

// ParseError describes one dropped record. It is never fatal.
type ParseError struct {
	Line   int
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Unwrap exposes the ErrParse kind.
func (e *ParseError) Unwrap() error { return ErrParse }

func newParseError(line int, fields []string, format string, args ...any) *ParseError {
	return &ParseError{
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
		Raw:    strings.Join(fields, "\t"),
	}
}
