package identity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), WithHashCost(bcrypt.MinCost))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, NewUser{Name: "Alice", Email: "  A@B.com ", Password: "correct"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, RoleUser, user.Role)
	assert.True(t, user.Active)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, []byte("correct"), user.PasswordHash)

	authed, err := svc.Authenticate(ctx, "a@B.COM", "correct")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestAuthenticateDoesNotDistinguishFailures(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, NewUser{Name: "Alice", Email: "a@b.com", Password: "correct"})
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "a@b.com", "wrong")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@b.com", "correct")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, NewUser{Name: "Alice", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, NewUser{Name: "Other", Email: "A@b.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), NewUser{Name: "Alice", Email: "a@b.com", Password: "secret1", Role: "ROOT"})
	assert.Error(t, err)
}

func TestSetActive(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	user, err := svc.Register(ctx, NewUser{Name: "Alice", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(ctx, user.ID, false))
	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, svc.SetActive(ctx, 999, false), ErrNotFound)
}

func TestRegisterRejectsBlankAndOversizedInput(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tests := []struct {
		name string
		in   NewUser
		want error
	}{
		{"blank email", NewUser{Name: "Bob", Email: "   ", Password: "secret1"}, ErrMissingFields},
		{"blank name", NewUser{Name: "  ", Email: "bob@b.com", Password: "secret1"}, ErrMissingFields},
		{"empty password", NewUser{Name: "Bob", Email: "bob@b.com"}, ErrMissingFields},
		{"password over bcrypt limit", NewUser{Name: "Bob", Email: "bob@b.com", Password: strings.Repeat("p", MaxPasswordBytes+1)}, ErrPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := svc.Register(ctx, NewUser{Name: "Bob", Email: "bob@b.com", Password: strings.Repeat("p", MaxPasswordBytes)})
	assert.NoError(t, err)
}

func TestDummyHashReadyBeforeFirstLogin(t *testing.T) {
	svc := newTestService()
	require.NotEmpty(t, svc.dummyHash)
	cost, err := bcrypt.Cost(svc.dummyHash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
