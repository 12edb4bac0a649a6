package gate

import (
	"time"

	"github.com/d0ughnat/Fruad-detection/internal/token"
)

// Hint is what the fast path learns from a token without checking its
// signature or the session store. It only steers routing: it is a separate
// type from auth.Principal and nothing accepts it as proof of identity.
type Hint struct {
	UserID    int64
	Name      string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// FastValidator decodes tokens without I/O.
type FastValidator struct {
	now func() time.Time
}

// NewFastValidator returns a validator using the wall clock.
func NewFastValidator() *FastValidator {
	return &FastValidator{now: time.Now}
}

// WithClock overrides the clock used for the expiry check.
func (v *FastValidator) WithClock(now func() time.Time) *FastValidator {
	v.now = now
	return v
}

// Validate returns a routing hint for tok, or token.ErrMalformedToken /
// token.ErrTokenExpired.
func (v *FastValidator) Validate(tok string) (Hint, error) {
	claims, err := token.DecodeUnverified(tok, v.now())
	if err != nil {
		return Hint{}, err
	}
	return Hint{
		UserID:    claims.UserID,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
