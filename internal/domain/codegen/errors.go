package codegen

import "errors"

var (
	// ErrUnknownFramework is returned for a framework outside the catalog.
	ErrUnknownFramework = errors.New("unknown framework")

	// ErrExternalService is returned when the vision model failed and the
	// fallback strategy is FallbackError. The provider error stays in the chain.
	ErrExternalService = errors.New("external service error")
)
