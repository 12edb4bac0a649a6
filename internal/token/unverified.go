package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var unverifiedParser = jwt.NewParser()

// DecodeUnverified decodes a token without checking its signature. The expiry
// rule is the one Verify applies: a token is live only while now < exp.
//
// The result is only fit for routing decisions.
func DecodeUnverified(tok string, now time.Time) (Claims, error) {
	var claims Claims
	parsed, _, err := unverifiedParser.ParseUnverified(tok, &claims)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if parsed.Method == nil || parsed.Method.Alg() != signingMethod.Alg() {
		return Claims{}, fmt.Errorf("%w: unexpected alg %v", ErrMalformedToken, parsed.Header["alg"])
	}
	if err := claims.Validate(); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return Claims{}, ErrTokenExpired
	}
	return claims, nil
}
