package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing request input. It is
	// always detected before any write happens.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is returned when a stock decrement would take a
	// combination below zero.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidQuantity is returned for restocks or cart lines with a
	// non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrMissingPrice is returned for combinations without an own price.
	ErrMissingPrice = errors.New("combination has no price")

	// ErrIncompleteVariant is returned when a combination does not resolve
	// both a size and a color.
	ErrIncompleteVariant = errors.New("size and color not resolved")

	// ErrIncompleteAddress is returned when a shipping address lacks a
	// required field.
	ErrIncompleteAddress = errors.New("shipping address is incomplete")

	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")

	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("illegal order status transition")
)
