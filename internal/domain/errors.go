package domain

import (
	"errors"
	"fmt"
)

// Kind classifies failures so every caller can react to the same condition the same way.
type Kind string

const (
	KindInternal     Kind = "internal"
	KindNetwork      Kind = "network"
	KindRateLimited  Kind = "rate_limited"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindPayment      Kind = "payment"
	KindBusiness     Kind = "business"
	KindUnauthorized Kind = "unauthorized"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was hit.
	ErrAlreadyExists = errors.New("already exists")
	// ErrRateLimited is returned when the commerce backend answered 429.
	ErrRateLimited = errors.New("rate limited")
	// ErrNetwork wraps transport failures talking to a remote service.
	ErrNetwork = errors.New("network failure")
	// ErrValidation marks rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrPayment marks a failed or unrecognized payment step.
	ErrPayment = errors.New("payment failed")
	// ErrBusiness marks a request that is well-formed but cannot be honored in the current state.
	ErrBusiness = errors.New("business rule violated")
	// ErrUnauthorized marks a missing or invalid identity.
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrNotLoggedIn       = NewError(KindUnauthorized, "login required")
	ErrEmptyCart         = NewError(KindBusiness, "cart is empty")
	ErrMissingAddress    = NewError(KindBusiness, "no shipping address selected")
	ErrInvalidCoupon     = NewValidationError("couponCode", "coupon code is not valid")
	ErrInvalidQuantity   = NewValidationError("quantity", "quantity must be at least 1")
	ErrDefaultAddress    = NewError(KindBusiness, "default address cannot be deleted")
	ErrPaymentIncomplete = NewError(KindPayment, "payment was not completed")
)

// Error is a classified failure. It matches the sentinel of its kind with errors.Is.
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
}

// NewError builds a classified error.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NewValidationError builds a validation error bound to an input field.
func NewValidationError(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: msg}
}

// WrapKind classifies err under kind, keeping it as the cause.
func WrapKind(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(k Kind) error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrAlreadyExists
	case KindRateLimited:
		return ErrRateLimited
	case KindNetwork:
		return ErrNetwork
	case KindValidation:
		return ErrValidation
	case KindPayment:
		return ErrPayment
	case KindBusiness:
		return ErrBusiness
	case KindUnauthorized:
		return ErrUnauthorized
	default:
		return nil
	}
}

// KindOf classifies any error. Unclassified errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range []Kind{
		KindRateLimited, KindNetwork, KindNotFound, KindConflict, KindValidation,
		KindPayment, KindBusiness, KindUnauthorized,
	} {
		if errors.Is(err, sentinel(k)) {
			return k
		}
	}
	return KindInternal
}
