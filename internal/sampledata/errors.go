package sampledata

import "errors"

// ErrRegistryFormat is returned for a registry file name that is neither .csv nor .xlsx.
var ErrRegistryFormat = errors.New("unsupported registry format")
