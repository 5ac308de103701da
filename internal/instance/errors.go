package instance

import "errors"

// The four error kinds of spec.md §7. MissingSheet, UnknownReference
// and IncompatibleDimensions are fatal; EmptyStream is reported but
// never returned as an error (see ioxlsx.Load's warnings return).
var (
	ErrMissingSheet          = errors.New("missing sheet")
	ErrUnknownReference      = errors.New("unknown reference")
	ErrIncompatibleDimensions = errors.New("incompatible dimensions")
)
