package imagenorm

import (
	"errors"
	"fmt"
)

// Kind classifies a normalization failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindPayloadTooLarge
	KindUnsupportedMediaType
	KindInvalidImageData
)

var (
	// ErrPayloadTooLarge is returned when the raw input exceeds the size limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUnsupportedMediaType is returned when the filename extension is not allowed.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidImageData is returned when the bytes cannot be decoded as an image.
	ErrInvalidImageData = errors.New("invalid image data")
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPayloadTooLarge:
		return "PayloadTooLarge"
	case KindUnsupportedMediaType:
		return "UnsupportedMediaType"
	case KindInvalidImageData:
		return "InvalidImageData"
	default:
		return "Unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindPayloadTooLarge:
		return ErrPayloadTooLarge
	case KindUnsupportedMediaType:
		return ErrUnsupportedMediaType
	case KindInvalidImageData:
		return ErrInvalidImageData
	default:
		return nil
	}
}

// Error is a classified normalization error.
// Msg is safe to show to clients; Err carries decoder diagnostics.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the classification of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}
