package outbound

import (
	"context"
	"errors"
	"fmt"
)

// VisionRequest is a single-image chat completion request.
type VisionRequest struct {
	Model        string
	Prompt       string
	ImageDataURI string
	MaxTokens    int
}

// VisionResponse is the text answer of a vision model.
type VisionResponse struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// VisionModelPort sends an image plus prompt to a vision-capable model.
type VisionModelPort interface {
	// Complete returns the model's text answer. Every failure is an
	// *ExternalServiceError.
	Complete(ctx context.Context, req *VisionRequest) (*VisionResponse, error)

	// Provider returns the provider name used in logs and metrics.
	Provider() string

	// DefaultModel returns the model used when a request names none.
	DefaultModel() string
}

// ErrNotConfigured is wrapped when a provider has no credentials.
var ErrNotConfigured = errors.New("provider not configured")

// ExternalServiceError reports a failed call to a third-party service.
type ExternalServiceError struct {
	Provider string
	Op       string
	// StatusCode is the upstream HTTP status, 0 when none was received.
	StatusCode int
	// Unavailable is set when the call was not attempted, for example
	// an open circuit breaker or missing credentials.
	Unavailable bool
	Err         error
}

func (e *ExternalServiceError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Provider, e.Op)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// AsExternalServiceError unwraps err into an *ExternalServiceError.
func AsExternalServiceError(err error) (*ExternalServiceError, bool) {
	var e *ExternalServiceError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
