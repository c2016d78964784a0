package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchema is the kind of every fatal registry schema failure.
var ErrSchema = errors.New("registry schema")

// SchemaError reports that a required column could not be resolved. It
// lists every normalized column name so the source sheet can be fixed.
type SchemaError struct {
	Column    Column
	Rule      string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no %s column found (%s); available columns: %s",
		e.Column, e.Rule, strings.Join(e.Available, ", "))
}

// Unwrap exposes the ErrSchema kind.
func (e *SchemaError) Unwrap() error { return ErrSchema }
