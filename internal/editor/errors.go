package editor

import "errors"

// Errors returned by document operations.
var (
	// ErrScratch indicates a save was attempted on a document with no path.
	ErrScratch = errors.New("document has no path")
)
