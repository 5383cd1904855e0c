package model

import "errors"

// Sentinel errors shared across services. Handlers map these onto the
// HTTP error taxonomy; everything else is treated as an internal error.
var (
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrAlreadyPaid        = errors.New("booking already paid")
	ErrNotPaid            = errors.New("booking is not paid")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is deactivated")
)
