package action

import "errors"

// ErrInvalidRequest is returned for malformed batches. Nothing is processed.
var ErrInvalidRequest = errors.New("invalid action request")
