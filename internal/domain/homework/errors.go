package homework

import (
	"errors"
	"fmt"
)

// Base errors for errors.Is() checking.
var (
	ErrShape         = errors.New("неожиданный формат ответа API")
	ErrMissingField  = errors.New("в домашней работе нет обязательного поля")
	ErrUnknownStatus = errors.New("неизвестный статус домашней работы")
)

// ShapeError reports a payload that does not match the expected schema.
type ShapeError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrShape, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrShape, e.Reason)
}

// Unwrap returns the underlying decode error, if any.
func (e *ShapeError) Unwrap() error { return e.Err }

// Is implements errors.Is() matching.
func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// MissingFieldError reports a homework record without a required key.
type MissingFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: нет ключа %q в ответе", ErrMissingField, e.Field)
}

// Is implements errors.Is() matching.
func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// UnknownStatusError reports a status absent from the catalog.
type UnknownStatusError struct {
	Status Status
}

// Error implements the error interface.
func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownStatus, string(e.Status))
}

// Is implements errors.Is() matching.
func (e *UnknownStatusError) Is(target error) bool { return target == ErrUnknownStatus }
