package service

import "errors"

// ErrNoClient is returned when the service has no completion client.
var ErrNoClient = errors.New("completion client not configured")
