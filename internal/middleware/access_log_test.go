package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0ughnat/Fruad-detection/internal/logging"
)

func TestAccessLogLevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID(), AccessLog(logging.NewWithWriter(&buf, "debug", "json")))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusNotFound, "nope") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(http.StatusInternalServerError, "boom") })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	want := []struct {
		level  string
		status float64
	}{{"INFO", 200}, {"WARN", 404}, {"ERROR", 500}}
	for i, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, want[i].level, entry["level"])
		assert.Equal(t, want[i].status, entry["status"])
		assert.NotEmpty(t, entry["request_id"])
	}
}
