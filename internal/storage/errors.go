package storage

import "errors"

// ErrConcurrencyConflict means the stream moved past the expected version
// between load and append.
var ErrConcurrencyConflict = errors.New("concurrency conflict")
