package domain

import "errors"

// Domain errors
var (
	// Session errors
	ErrEmptyToken  = errors.New("access token is required")
	ErrInvalidRole = errors.New("invalid role")

	// Validation errors
	ErrPasswordMismatch     = errors.New("the password confirmation does not match")
	ErrInvalidProductID     = errors.New("invalid product id")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("payment method must be qris or postpaid")
	ErrInvalidPaymentStatus = errors.New("payment status must be pending, paid or unpaid")
	ErrInvalidPrice         = errors.New("price cannot be negative")
	ErrNameRequired         = errors.New("name is required")

	// Cart errors
	ErrEmptyCart        = errors.New("your cart is empty")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrItemPending      = errors.New("an update for this item is already in progress")
)

// IsValidationError checks if the error is a client-side validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrInvalidProductID) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidPaymentStatus) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrEmptyToken)
}

// IsConflictError checks if the error is a state conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrItemPending)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrCartItemNotFound)
}
