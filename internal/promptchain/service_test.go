package promptchain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0ughnat/Fruad-detection/internal/activity"
	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/logging"
)

func newTestService() (*Service, *activity.Service) {
	acts := activity.NewService(activity.NewMemoryRepository())
	return NewService(NewMemoryRepository(), acts, logging.Discard()), acts
}

func TestCreateAndUpdate(t *testing.T) {
	svc, acts := newTestService()
	ctx := context.Background()

	pc, err := svc.Create(ctx, 1, "triage", "first pass", json.RawMessage(`["classify","summarise"]`))
	require.NoError(t, err)
	assert.True(t, pc.IsActive)

	_, err = svc.Create(ctx, 1, "triage", "", json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = svc.Create(ctx, 1, "bad", "", json.RawMessage(`{"a":1}`))
	assert.ErrorIs(t, err, ErrPromptsNotArray)

	off := false
	updated, err := svc.Update(ctx, 1, pc.ID, Patch{IsActive: &off})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "triage", updated.Name)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.Update(ctx, 1, "missing", Patch{IsActive: &off})
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := acts.List(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionUpdate, entries[0].Action)
	assert.Equal(t, ActionCreate, entries[1].Action)
	assert.JSONEq(t, `{"name":"triage","promptCount":2}`, string(entries[1].Metadata))
}

func TestHandlerRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc, validator.New())

	as := func(role identity.Role) fiber.Handler {
		return func(c *fiber.Ctx) error {
			auth.SetPrincipal(c, auth.Principal{User: identity.User{ID: 2, Role: role}})
			return c.Next()
		}
	}
	app := fiber.New()
	app.Post("/user/prompt-chain", as(identity.RoleUser), h.Create)
	app.Post("/admin/prompt-chain", as(identity.RoleAdmin), h.Create)
	app.Put("/admin/prompt-chain", as(identity.RoleAdmin), h.Update)
	app.Get("/prompt-chain", h.Get)

	send := func(method, path, body string) *http.Response {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusForbidden, send(http.MethodPost, "/user/prompt-chain", `{"name":"x","prompts":["a"]}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(http.MethodPost, "/admin/prompt-chain", `{"name":"x"}`).StatusCode)

	resp := send(http.MethodPost, "/admin/prompt-chain", `{"name":"x","prompts":["a"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var created struct {
		PromptChain PromptChain `json:"promptChain"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	assert.Equal(t, http.StatusBadRequest, send(http.MethodPut, "/admin/prompt-chain", `{"name":"y"}`).StatusCode)
	assert.Equal(t, http.StatusOK, send(http.MethodPut, "/admin/prompt-chain", `{"id":"`+created.PromptChain.ID+`","name":"y"}`).StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prompt-chain?name=y", nil))
	require.NoError(t, err)
	var byName struct {
		PromptChains PromptChain `json:"promptChains"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&byName))
	assert.Equal(t, created.PromptChain.ID, byName.PromptChains.ID)
}
