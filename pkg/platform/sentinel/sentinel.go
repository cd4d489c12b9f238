// Package sentinel holds infrastructure error facts returned by stores.
// Callers match them with errors.Is and translate them into fetch or domain
// errors at their own boundary.
package sentinel

import "errors"

var (
	// ErrNotFound means the requested record or snapshot does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable means the backing service could not be reached.
	ErrUnavailable = errors.New("unavailable")
)
