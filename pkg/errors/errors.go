package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation       = errors.New("validation failed")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAlreadyPaid      = errors.New("payment already made")
	ErrNotEligible      = errors.New("loan not found or already closed")
	ErrEmailExists      = errors.New("email already registered")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrPersistence      = errors.New("persistence operation failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyPaid      = "ALREADY_PAID"
	ErrCodeNotEligible      = "NOT_ELIGIBLE"
	ErrCodeEmailExists      = "EMAIL_EXISTS"
	ErrCodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	ErrCodePersistence      = "PERSISTENCE_ERROR"
)

// Wrap common errors with business context
func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapLoanNotFound(loanCode string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Loan %s not found", loanCode),
		ErrLoanNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Payment %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapUserNotFound(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("User %s not found", email),
		ErrUserNotFound,
	)
}

func WrapAlreadyPaid(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyPaid,
		fmt.Sprintf("Payment %s was already made", paymentID),
		ErrAlreadyPaid,
	)
}

func WrapNotEligible(loanCode string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotEligible,
		fmt.Sprintf("Loan %s not found or already closed", loanCode),
		ErrNotEligible,
	)
}

func WrapEmailExists(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeEmailExists,
		fmt.Sprintf("Email %s is already registered", email),
		ErrEmailExists,
	)
}

func WrapEmailNotVerified(email string) *BusinessError {
	return NewBusinessError(
		ErrCodeEmailNotVerified,
		"Email not verified. Please verify before logging in.",
		ErrEmailNotVerified,
	)
}

// WrapPersistence hides storage internals behind a generic message; the cause
// stays attached for logging via Unwrap.
func WrapPersistence(err error) *BusinessError {
	return NewBusinessError(ErrCodePersistence, "storage operation failed", errors.Join(ErrPersistence, err))
}

// CodeOf extracts the business error code, defaulting to a persistence
// failure for untyped errors.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodePersistence
}

// IsBusiness reports whether err already carries a BusinessError.
func IsBusiness(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}
