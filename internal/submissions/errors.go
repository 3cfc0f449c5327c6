package submissions

import "errors"

// ErrNotFound indicates the submission does not exist.
var ErrNotFound = errors.New("submission not found")
