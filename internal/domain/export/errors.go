package export

import "errors"

var (
	// ErrInvalidProjectName is returned for empty, overlong or unsafe project names.
	ErrInvalidProjectName = errors.New("invalid project name")

	// ErrUnsupportedFramework is returned for a framework outside the catalog.
	ErrUnsupportedFramework = errors.New("unsupported framework")
)
