package attendance

import "errors"

var (
	// ErrNotAvailable signals the backing attendance store could not be
	// reached. Callers retry at batch scope, never per record.
	ErrNotAvailable = errors.New("attendance store not available")
)
