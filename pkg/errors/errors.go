package errors

import "errors"

// ErrNotConfigured an optional outbound integration is missing its credentials.
var ErrNotConfigured = errors.New("integration is not configured")
