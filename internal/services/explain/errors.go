package explain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means no text-generation provider or key is set.
	ErrNotConfigured = errors.New("explanation provider not configured")
	// ErrMissingData means there is no plan to explain.
	ErrMissingData = errors.New("missing plan data for explanation")
)

// StreamError wraps a request or stream failure from the provider.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("explanation stream failed: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// User-facing messages, one per failure kind.
const (
	MsgNotConfigured = "Explanations are not available: no AI provider key has been configured."
	MsgMissingData   = "We couldn't find your plan details to explain. Please run the optimisation again."
	MsgStreamFailed  = "Something went wrong while generating the explanation. Please try again."
)

// UserMessage maps an Explain error to the message shown to the user. Any
// error other than the two sentinels is a stream failure.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return MsgNotConfigured
	case errors.Is(err, ErrMissingData):
		return MsgMissingData
	default:
		return MsgStreamFailed
	}
}
