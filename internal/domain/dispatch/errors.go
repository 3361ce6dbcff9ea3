package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotConfigured   = errors.New("workflow endpoint is not configured")
	ErrUpstream        = errors.New("workflow endpoint call failed")
	ErrInvalidRequest  = errors.New("invalid schedule request")
	ErrInvalidTimezone = errors.New("unknown timezone")
	ErrInvalidSendAt   = errors.New("sendAt must be a date, a local date-time or an RFC 3339 instant")
)

// UpstreamError reports a failed call to the workflow endpoint. Status is
// zero when no response arrived (connection failure or timeout).
type UpstreamError struct {
	Status int
	Body   json.RawMessage
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("workflow endpoint unreachable: %v", e.Err)
	}
	return fmt.Sprintf("workflow endpoint returned status %d", e.Status)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// FieldError is a schedule request rejected before any network call.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
