// Package common defines shared constants and sentinel errors used across
// client and server layers of the dealership. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")
	ErrorConflict     = errors.New("conflict")

	// Auth errors.
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Catalog errors.
	ErrTooManyImages   = errors.New("a car can have at most 10 images")
	ErrCarNotAvailable = errors.New("car is not available")

	// Checkout errors.
	ErrCheckoutInProgress = errors.New("checkout already in progress")

	// Sell request errors.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
