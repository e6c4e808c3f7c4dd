package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnknownControl is returned when an action names no registered control
	ErrUnknownControl = errors.New("unknown control")
	// ErrControlDisabled is returned when the control is disabled or loading
	ErrControlDisabled = errors.New("control is disabled")
)

// message is an activation sent by the client over HTTP or WebSocket
type message struct {
	Action string `json:"action" validate:"required,max=64"`
}

// ActionResponse acknowledges one activation
type ActionResponse struct {
	Action  string            `json:"action"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

var validate = validator.New()

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError is a collection of field errors
type MultiError []FieldError

func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the errors keyed by field
func (m MultiError) Fields() map[string]string {
	fields := make(map[string]string, len(m))
	for _, e := range m {
		fields[e.Field] = e.Message
	}
	return fields
}

// validationToMultiError converts go-playground/validator errors to MultiError
func validationToMultiError(err error) MultiError {
	var fieldErrors MultiError

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fieldErrors
	}

	for _, e := range validationErrs {
		fieldName := strings.ToLower(e.Field())

		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldName)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", fieldName, e.Param())
		default:
			message = fmt.Sprintf("%s is invalid", fieldName)
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName,
			Message: message,
		})
	}

	return fieldErrors
}

// decodeMessage parses and validates an action message
func decodeMessage(r io.Reader) (message, error) {
	var msg message
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		return message{}, fmt.Errorf("failed to parse action: %w", err)
	}

	if err := validate.Struct(msg); err != nil {
		return message{}, validationToMultiError(err)
	}

	return msg, nil
}
