package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/logging"
)

// stubValidator accepts tokens of the form "user-<n>" listed in users.
type stubValidator struct {
	users map[string]identity.User
}

func (s stubValidator) Validate(_ context.Context, tok string) (auth.Principal, error) {
	u, ok := s.users[tok]
	if !ok {
		return auth.Principal{}, auth.ErrSessionNotFound
	}
	return auth.Principal{User: u, SessionID: "sess-" + tok}, nil
}

var testUsers = stubValidator{users: map[string]identity.User{
	"user-1": {ID: 1, Email: "one@b.com", Role: identity.RoleUser, Active: true},
	"user-2": {ID: 2, Email: "two@b.com", Role: identity.RoleUser, Active: true},
	"admin":  {ID: 9, Email: "admin@b.com", Role: identity.RoleAdmin, Active: true},
}}

func setupIdempotencyApp(t *testing.T) (*fiber.App, *int64) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	var calls int64
	app := fiber.New()
	logger := logging.Discard()
	app.Post("/resource",
		RequireSession(testUsers, logger),
		Idempotency(cache, time.Minute, logger),
		func(c *fiber.Ctx) error {
			n := atomic.AddInt64(&calls, 1)
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true, "call": n})
		})
	return app, &calls
}

func idemRequest(key, tok string) *http.Request {
	req := httptest.NewRequest(fiber.MethodPost, "/resource", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok})
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return string(b)
}

func TestIdempotencyHeaderIsOptional(t *testing.T) {
	app, calls := setupIdempotencyApp(t)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(idemRequest("", "user-1"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(calls))
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, calls := setupIdempotencyApp(t)

	resp, err := app.Test(idemRequest("abc123", "user-1"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	first := readBody(t, resp)

	resp2, err := app.Test(idemRequest("abc123", "user-1"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp2.StatusCode)
	assert.Equal(t, "true", resp2.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, first, readBody(t, resp2))
	assert.Equal(t, int64(1), atomic.LoadInt64(calls))
}

func TestIdempotencyKeysAreScopedPerUser(t *testing.T) {
	app, calls := setupIdempotencyApp(t)

	resp, err := app.Test(idemRequest("shared", "user-1"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(idemRequest("shared", "user-2"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, int64(2), atomic.LoadInt64(calls))
}

func TestIdempotencyRejectsOversizedKey(t *testing.T) {
	app, _ := setupIdempotencyApp(t)
	resp, err := app.Test(idemRequest(strings.Repeat("k", maxIdempotencyKeyLen+1), "user-1"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
