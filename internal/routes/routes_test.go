package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/config"
	"github.com/d0ughnat/Fruad-detection/internal/logging"
)

func testConfig(store string) config.Config {
	return config.Config{
		AppName:        "test",
		AppEnv:         config.EnvTest,
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		SessionTTL:     7 * 24 * time.Hour,
		IdempotencyTTL: time.Hour,
		SessionStore:   store,
		DashboardStore: store,
	}
}

type harness struct {
	t   *testing.T
	app *fiber.App
}

func newHarness(t *testing.T, d Deps) *harness {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		code := http.StatusInternalServerError
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}})
	require.NoError(t, Setup(app, d))
	return &harness{t: t, app: app}
}

func (h *harness) do(method, path, body, cookie string, headers ...string) (*http.Response, map[string]any) {
	h.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie})
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie", auth.CookieName)
	return ""
}

func TestEndToEndMemory(t *testing.T) {
	h := newHarness(t, Deps{Cfg: testConfig(config.BackendMemory), Logger: logging.Discard()})

	resp, body := h.do(http.MethodGet, "/api/activity", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication required", body["error"])

	resp, _ = h.do(http.MethodGet, "/dashboard", "", "")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=%2Fdashboard", resp.Header.Get("Location"))

	resp, _ = h.do(http.MethodPost, "/api/auth/register", `{"name":"Ana","email":"Ana@Example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := sessionCookie(t, resp)

	resp, body = h.do(http.MethodGet, "/api/auth/me", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"])

	resp, _ = h.do(http.MethodPost, "/api/dashboard-data", `{"dataType":"widgets","data":{"cols":3}}`, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.do(http.MethodPost, "/api/prompt-chain", `{"name":"triage","prompts":["a"]}`, tok)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = h.do(http.MethodGet, "/api/activity", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	acts := body["activities"].([]any)
	require.Len(t, acts, 2)
	assert.Equal(t, "DATA_SAVE", acts[0].(map[string]any)["action"])
	assert.Equal(t, "REGISTER", acts[1].(map[string]any)["action"])

	resp, _ = h.do(http.MethodPost, "/api/auth/logout", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = h.do(http.MethodGet, "/api/auth/me", "", tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", body["error"])

	resp, _ = h.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEndToEndRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	h := newHarness(t, Deps{Cfg: testConfig(config.BackendRedis), Cache: cache, Logger: logging.Discard()})

	resp, _ := h.do(http.MethodPost, "/api/auth/register", `{"name":"Bo","email":"bo@example.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := sessionCookie(t, resp)

	resp, _ = h.do(http.MethodPost, "/api/progress", `{"taskType":"review","taskId":"42","percentage":10}`, tok, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = h.do(http.MethodPost, "/api/progress", `{"taskType":"review","taskId":"42","percentage":90}`, tok, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))

	resp, body := h.do(http.MethodGet, "/api/progress?taskType=review&taskId=42", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 10, body["progress"].(map[string]any)["percentage"])

	resp, _ = h.do(http.MethodPost, "/api/auth/logout", "", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = h.do(http.MethodGet, "/api/progress", "", tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSetupRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(config.BackendMemory)
	cfg.AppEnv = config.EnvProduction
	assert.Error(t, Setup(fiber.New(), Deps{Cfg: cfg, Logger: logging.Discard()}))
}

func TestSetupRejectsRedisStoreWithoutClient(t *testing.T) {
	assert.Error(t, Setup(fiber.New(), Deps{Cfg: testConfig(config.BackendRedis), Logger: logging.Discard()}))
}
