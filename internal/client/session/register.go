package session

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/elite/internal/client/api"
)

const msgRegisterInvalid = "data validation error"

// RegistrationError carries the message for the first offending field.
type RegistrationError struct {
	Field   string // "" when no field could be singled out
	Message string
	Err     error
}

func (e *RegistrationError) Error() string { return e.Message }

func (e *RegistrationError) Unwrap() error { return e.Err }

var registerFields = []struct {
	key    string
	prefix string
}{
	{"username", "Username: "},
	{"email", "Email: "},
	{"password", "Password: "},
	{"detail", ""},
	{"non_field_errors", ""},
}

// registrationError maps a failed register call. Validation bodies yield the
// first offending field by precedence; anything else keeps the pipeline's
// message.
func registrationError(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Kind != api.KindValidation {
		return &RegistrationError{Message: err.Error(), Err: err}
	}

	fields := apiErr.Fields()
	for _, f := range registerFields {
		if msg, ok := firstMessage(fields[f.key]); ok {
			return &RegistrationError{Field: f.key, Message: f.prefix + msg, Err: err}
		}
	}
	return &RegistrationError{Message: msgRegisterInvalid, Err: err}
}

// firstMessage accepts DRF's ["msg", ...] lists and bare strings.
func firstMessage(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case []any:
		if len(x) == 0 {
			return "", false
		}
		return fmt.Sprint(x[0]), true
	default:
		return "", false
	}
}
