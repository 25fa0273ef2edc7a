package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned when the backend rejects a login.
	ErrAuth = errors.New("authentication failed")
	// ErrValidation marks client-side input problems; no request was sent.
	ErrValidation = errors.New("validation failed")
	// ErrRegistration is returned when the backend rejects a registration.
	ErrRegistration = errors.New("registration failed")
	// ErrUpdate is returned when the backend rejects a moderation mutation.
	ErrUpdate = errors.New("update failed")
	// ErrRequest covers every other failed backend call.
	ErrRequest = errors.New("request failed")

	// ErrReload marks a failed full reload. A mutation that returns an error
	// wrapping ErrReload was applied by the backend.
	ErrReload = errors.New("reload failed")

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserNotFound     = errors.New("user not found")
	ErrForbidden        = errors.New("access forbidden")
)

// RequestError describes a backend call that did not succeed. Kind is one of
// the sentinels above and is what errors.Is matches against. Err holds the
// transport failure when no response was received.
type RequestError struct {
	Action  string
	Status  int // 0 when no response was received
	Message string
	Kind    error
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Action, e.Kind, e.Err)
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Action, e.Message, e.Status)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Action, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: %v (status %d)", e.Action, e.Kind, e.Status)
	default:
		return fmt.Sprintf("%s: %v", e.Action, e.Kind)
	}
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ErrorMessage returns the text worth showing to a person for err: the
// backend's own message when it sent one, otherwise the error kind.
func ErrorMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		if re.Message != "" {
			return re.Message
		}
		return re.Kind.Error()
	}
	return err.Error()
}
