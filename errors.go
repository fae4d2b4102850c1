package jsonstore

import "errors"

var (
	// ErrInvalidArgument reports malformed construction inputs or an
	// unknown option name. The store is never left partially constructed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDataFile reports a failed save: either the record could not be
	// serialized or the file could not be written.
	ErrDataFile = errors.New("data file error")
)
