package auth

import (
	"errors"

	"github.com/d0ughnat/Fruad-detection/internal/identity"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrAccountDisabled is returned for accounts whose active flag is off.
	ErrAccountDisabled = errors.New("auth: account disabled")
	// ErrEmailTaken is returned by Register when the email is registered.
	ErrEmailTaken = errors.New("auth: email taken")
	// ErrSessionNotFound is returned when no live session backs a token.
	ErrSessionNotFound = errors.New("auth: session not found")
	// ErrPasswordTooShort is returned when a new password is under MinPasswordLength.
	ErrPasswordTooShort = errors.New("auth: password too short")
	// ErrPasswordTooLong is returned when a new password exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("auth: password too long")
	// ErrMissingFields is returned when name, email or password is blank.
	ErrMissingFields = errors.New("auth: missing fields")
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest password accepted at registration, in bytes.
const MaxPasswordBytes = identity.MaxPasswordBytes
