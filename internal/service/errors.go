package service

import "errors"

// Error kinds returned by the services. Handlers map them to HTTP statuses;
// anything outside this set is treated as an internal failure.
var (
	ErrNotFound           = errors.New("not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrInsufficientFunds  = errors.New("insufficient balance in virtual wallet")
	ErrInsufficientStock  = errors.New("not enough stock available")
)
