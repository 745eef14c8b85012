package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied is returned when the user may not chat with the bot.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrBotNotFound is returned when the requested bot does not exist.
	ErrBotNotFound = errors.New("bot not found")
	// ErrMissingCredential is returned when the caller has no credential for
	// the bot's LLM provider. Generation cannot proceed without one.
	ErrMissingCredential = errors.New("missing provider credential")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
