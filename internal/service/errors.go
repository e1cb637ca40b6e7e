package service

import (
	"errors"

	"github.com/nurpe/rental-desk/internal/validation"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("quantity exceeds available stock")
)

// FormError carries the field failures of a rejected form submission.
type FormError struct {
	Fields validation.FieldErrors
}

func (e *FormError) Error() string {
	return ErrInvalidInput.Error() + ": " + e.Fields.Error()
}

func (e *FormError) Unwrap() error {
	return ErrInvalidInput
}

func formError(err error) error {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return &FormError{Fields: fields}
	}
	return err
}

var ErrJournalDisabled = errors.New("document export journal is disabled")
