package domain

import "strings"

// Role is the account type the backend reports as user.type
type Role string

const (
	RoleNone     Role = ""
	RoleAdmin    Role = "admin"
	RoleGeneral  Role = "general"
	RolePostpaid Role = "postpaid"
)

// ParseRole maps a backend user type onto a Role
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() || r == RoleNone {
		return RoleNone, ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is a known role or absent
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAdmin, RoleGeneral, RolePostpaid:
		return true
	}
	return false
}

func (r Role) String() string {
	if r == RoleNone {
		return "guest"
	}
	return string(r)
}

// PaymentMethod is how an order is settled
type PaymentMethod string

const (
	PaymentQRIS     PaymentMethod = "qris"
	PaymentPostpaid PaymentMethod = "postpaid"
)

// ParsePaymentMethod validates a payment method name
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentQRIS, PaymentPostpaid:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

// PaymentStatus is the settlement state of an order
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentUnpaid  PaymentStatus = "unpaid"
)

// ParsePaymentStatus validates a payment status name
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case PaymentPending, PaymentPaid, PaymentUnpaid:
		return st, nil
	}
	return "", ErrInvalidPaymentStatus
}
