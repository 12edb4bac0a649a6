package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Subject is the identity snapshot a token is issued for.
type Subject struct {
	UserID int64
	Name   string
	Email  string
	Role   string
}

// Claims is the fixed-shape payload carried inside every session token.
// It is a point-in-time copy of the user at issuance; later profile or role
// changes are not reflected until a new token is issued.
type Claims struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Validate performs the structural checks applied on every decode. The jwt
// parser calls it after the registered-claim checks.
func (c Claims) Validate() error {
	var errs []error
	if c.UserID <= 0 {
		errs = append(errs, errors.New("userId must be positive"))
	}
	if c.Email == "" {
		errs = append(errs, errors.New("email is required"))
	}
	if c.Role == "" {
		errs = append(errs, errors.New("role is required"))
	}
	if c.IssuedAt == nil {
		errs = append(errs, errors.New("iat is required"))
	}
	if c.ExpiresAt == nil {
		errs = append(errs, errors.New("exp is required"))
	}
	return errors.Join(errs...)
}

// Identity returns the identity fields of the claim set.
func (c Claims) Identity() Subject {
	return Subject{UserID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}
