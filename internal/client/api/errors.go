package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a failed call. Exactly one applies.
type Kind string

const (
	KindNetworkUnreachable Kind = "NETWORK_UNREACHABLE"
	KindSessionExpired     Kind = "SESSION_EXPIRED"
	KindForbidden          Kind = "FORBIDDEN"
	KindServer             Kind = "SERVER_ERROR"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindUnknown            Kind = "UNKNOWN"
)

var (
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("forbidden")
	ErrServer             = errors.New("server error")
	ErrValidation         = errors.New("validation error")
	ErrUnknown            = errors.New("unknown error")
)

const (
	msgSessionExpired = "session expired, please log in again"
	msgServer         = "server error, please try again later"
	msgFallback       = "an error occurred"
)

func msgUnreachable(baseURL string) string {
	return fmt.Sprintf("cannot connect to the server, check that the backend is running at %s", baseURL)
}

func msgStatus(status int) string {
	return fmt.Sprintf("request failed with status code %d", status)
}

// Error is the pipeline's only failure type.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 when no response was received
	Message string // displayable text
	Body    []byte // raw response body, when there was one
	Err     error  // underlying transport or decode error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind, so errors.Is(err, ErrForbidden) works
// through any amount of %w wrapping.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

// Fields decodes Body as a JSON object. It returns nil when Body is not one.
func (e *Error) Fields() map[string]any {
	return jsonObject(e.Body)
}

func sentinel(k Kind) error {
	switch k {
	case KindNetworkUnreachable:
		return ErrNetworkUnreachable
	case KindSessionExpired:
		return ErrSessionExpired
	case KindForbidden:
		return ErrForbidden
	case KindServer:
		return ErrServer
	case KindValidation:
		return ErrValidation
	default:
		return ErrUnknown
	}
}

func jsonObject(b []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	return m
}

// KindOf classifies any error; errors not produced by the pipeline are
// KindUnknown, nil is "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
