package token

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var alice = Subject{UserID: 7, Name: "Alice", Email: "a@b.com", Role: "USER"}

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCodec(t *testing.T, clock *fakeClock) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, 7*24*time.Hour, WithClock(clock.now))
	require.NoError(t, err)
	return c
}

func TestValidateSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "empty", secret: "", wantErr: true},
		{name: "short", secret: "your-secret-key", wantErr: true},
		{name: "exact minimum", secret: strings.Repeat("x", MinSecretLength)},
		{name: "long", secret: strings.Repeat("x", 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSecret(tt.secret)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "expected ConfigurationError, got %v", err)
		})
	}
}

func TestNewCodecRejectsWeakSecret(t *testing.T) {
	_, err := NewCodec("short", time.Hour)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	tok, issued, err := codec.Issue(alice)
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), issued.ExpiresAt.Time)

	got, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, alice, got.Identity())
	assert.Equal(t, issued.ID, got.ID)
	assert.True(t, got.IssuedAt.Time.Equal(clock.t))
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	codec := newTestCodec(t, clock)

	first, _, err := codec.Issue(alice)
	require.NoError(t, err)
	second, _, err := codec.Issue(alice)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestIssueRejectsIncompleteSubject(t *testing.T) {
	codec := newTestCodec(t, &fakeClock{t: time.Now()})
	_, _, err := codec.Issue(Subject{Email: "a@b.com", Role: "USER"})
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec := newTestCodec(t, &fakeClock{t: time.Now()})
	tok, _, err := codec.Issue(alice)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	forged := strings.Replace(string(payload), `"role":"USER"`, `"role":"ADMIN"`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
	tampered := strings.Join(parts, ".")

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	// The unverified decoder accepts it by construction.
	claims, err := DecodeUnverified(tampered, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	codec := newTestCodec(t, clock)
	other, err := NewCodec(strings.Repeat("z", 40), time.Hour, WithClock(clock.now))
	require.NoError(t, err)

	tok, _, err := other.Issue(alice)
	require.NoError(t, err)
	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestExpiryAgreement(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	codec, err := NewCodec(testSecret, time.Hour, WithClock(clock.now))
	require.NoError(t, err)

	tok, _, err := codec.Issue(alice)
	require.NoError(t, err)

	offsets := []time.Duration{
		0,
		30 * time.Minute,
		time.Hour - time.Second,
		time.Hour - time.Nanosecond,
		time.Hour,
		time.Hour + time.Nanosecond,
		2 * time.Hour,
	}
	for _, off := range offsets {
		clock.t = start.Add(off)
		_, verr := codec.Verify(tok)
		_, uerr := DecodeUnverified(tok, clock.t)

		assert.Equal(t, errors.Is(verr, ErrTokenExpired), errors.Is(uerr, ErrTokenExpired), "offset %s", off)
		assert.Equal(t, verr == nil, uerr == nil, "offset %s", off)
		if off >= time.Hour {
			assert.ErrorIs(t, verr, ErrTokenExpired, "offset %s", off)
		}
	}
}

func TestDecodeUnverifiedMalformed(t *testing.T) {
	codec := newTestCodec(t, &fakeClock{t: time.Now()})
	valid, _, err := codec.Issue(alice)
	require.NoError(t, err)
	parts := strings.Split(valid, ".")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 1, Email: "a@b.com", Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	noneTok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	missingFields := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	missingTok, err := missingFields.SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"two segments":   parts[0] + "." + parts[1],
		"four segments":  valid + ".extra",
		"bad payload":    parts[0] + ".!!!." + parts[2],
		"json garbage":   parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + "." + parts[2],
		"alg none":       noneTok,
		"missing fields": missingTok,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeUnverified(tok, time.Now())
			assert.ErrorIs(t, err, ErrMalformedToken)

			_, err = codec.Verify(tok)
			assert.Error(t, err)
			assert.False(t, errors.Is(err, ErrTokenExpired))
		})
	}
}

func TestFingerprintIsStableAndShort(t *testing.T) {
	assert.Equal(t, Fingerprint("abc"), Fingerprint("abc"))
	assert.NotEqual(t, Fingerprint("abc"), Fingerprint("abd"))
	assert.Len(t, Fingerprint("abc"), 12)
}
