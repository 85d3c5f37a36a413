package plantuml

import "errors"

// Sentinel errors for pipeline failures. Render and storage failures both
// degrade a block to the same fallback output today, but they stay distinct
// so callers can tell them apart with errors.Is.
var (
	// ErrRender indicates the rendering service could not be reached or
	// responded with a non-success status.
	ErrRender = errors.New("render failed")

	// ErrStorage indicates the artifact directory or file could not be
	// created or written.
	ErrStorage = errors.New("storage failed")

	// ErrIncludeRead indicates an include target could not be read.
	ErrIncludeRead = errors.New("include target unreadable")

	// ErrDepthExceeded indicates include expansion hit the depth bound,
	// usually because of a self- or mutually-referential fragment pair.
	ErrDepthExceeded = errors.New("include depth exceeded")
)
