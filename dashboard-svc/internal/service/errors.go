package service

import (
	"errors"
	"fmt"

	"kantin-dashboard/dashboard-svc/internal/domain"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrMenuNotFound       = errors.New("menu item not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrCustomerNotFound   = errors.New("customer balance record not found")
	ErrAccountNotFound    = errors.New("account not found")

	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrStatusConflict     = errors.New("order status changed concurrently")
	ErrCommitUnknown      = errors.New("transaction commit failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidOTP         = errors.New("invalid or expired reset code")
	ErrUploadFailed       = errors.New("image upload failed")
)

// ValidationError reports the first rejected field of an owner-submitted form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// PartialUpdateError means the outcome of a status transition is unknown:
// the commit was attempted but not acknowledged.
type PartialUpdateError struct {
	OrderID int
	Target  domain.OrderStatus
	Err     error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("order %d: transition to %s may not have been applied: %v", e.OrderID, e.Target, e.Err)
}

func (e *PartialUpdateError) Unwrap() error {
	return e.Err
}
