package checkinlog

import "errors"

// Sentinel kinds for check-in log errors.
var (
	ErrRead = errors.New("read check-in log")
)
