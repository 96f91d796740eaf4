package application

import "errors"

// Sentinel errors matched with errors.Is at the HTTP boundary and mapped to
// status codes there. Anything else escaping a service is treated as an
// internal failure: logged, reported generically.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidRole         = errors.New("invalid role, must be DONOR or RECEIVER")
	ErrAccountBlocked      = errors.New("account is blocked")
	ErrInvalidTransition   = errors.New("action not allowed in current status")
	ErrSuperadminProtected = errors.New("cannot modify SUPERADMIN account")
	ErrInvalidAction       = errors.New("invalid action")
	ErrReceiverNotEligible = errors.New("receiver must be an approved RECEIVER account")
)
