package token

import (
	"errors"
	"fmt"
)

// MinSecretLength is the shortest signing secret accepted, in bytes.
const MinSecretLength = 32

var (
	// ErrMalformedToken is returned when a token cannot be decoded into a
	// well-formed claim set.
	ErrMalformedToken = errors.New("token: malformed")
	// ErrTokenExpired is returned when the token's expiry has passed.
	ErrTokenExpired = errors.New("token: expired")
	// ErrSignatureMismatch is returned when the MAC does not match the payload.
	ErrSignatureMismatch = errors.New("token: signature mismatch")
)

// ConfigurationError reports a missing or weak signing secret. It is fatal at
// startup and never produced per request.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("token: signing secret %s", e.Reason)
}

// ValidateSecret rejects empty secrets and secrets shorter than MinSecretLength.
func ValidateSecret(secret string) error {
	switch {
	case secret == "":
		return &ConfigurationError{Reason: "is not configured"}
	case len(secret) < MinSecretLength:
		return &ConfigurationError{Reason: fmt.Sprintf("must be at least %d bytes, got %d", MinSecretLength, len(secret))}
	}
	return nil
}
