package fiscal

import "errors"

// ErrInvalidRate is returned when a rate or fraction cannot be parsed.
var ErrInvalidRate = errors.New("invalid fiscal rate")
