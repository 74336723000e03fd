package core

import "fmt"

// CaptureErrorKind enumerates the reasons a Capture failed to open or died.
type CaptureErrorKind int

const (
	// ErrKindAlreadyInUse means another application holds the device.
	ErrKindAlreadyInUse CaptureErrorKind = iota
	// ErrKindUnplugged means the device is absent from the most recent
	// info snapshot.
	ErrKindUnplugged
	// ErrKindUnknown is any other failure; Message carries context.
	ErrKindUnknown
)

// CaptureError is the single tagged error type the engine ever produces.
// It implements the standard error interface so it composes with %w/errors.Is
// call sites, while still exposing Kind for callers that want to branch on
// it without string matching.
type CaptureError struct {
	Kind    CaptureErrorKind
	Message string
}

// Error implements the error interface, returning a suggested user-facing
// message for each error kind.
func (e CaptureError) Error() string {
	switch e.Kind {
	case ErrKindAlreadyInUse:
		return "webcam is already in use by another application"
	case ErrKindUnplugged:
		return "webcam is unplugged"
	case ErrKindUnknown:
		if e.Message != "" {
			return fmt.Sprintf("webcam error: %s", e.Message)
		}
		return "webcam error: unknown"
	default:
		return "webcam error: unrecognized failure"
	}
}

// NewAlreadyInUseError builds an ErrKindAlreadyInUse CaptureError.
func NewAlreadyInUseError() CaptureError {
	return CaptureError{Kind: ErrKindAlreadyInUse}
}

// NewUnpluggedError builds an ErrKindUnplugged CaptureError.
func NewUnpluggedError() CaptureError {
	return CaptureError{Kind: ErrKindUnplugged}
}

// NewUnknownError builds an ErrKindUnknown CaptureError with a human-readable
// message describing the failing call's context.
func NewUnknownError(message string) CaptureError {
	return CaptureError{Kind: ErrKindUnknown, Message: message}
}
