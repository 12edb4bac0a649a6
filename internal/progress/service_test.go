package progress

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

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestUpsertCreatesThenUpdates(t *testing.T) {
	svc, acts := newTestService()
	ctx := context.Background()

	created, err := svc.Upsert(ctx, 1, Update{TaskType: "review", TaskID: "t-1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultStatus, created.Status)
	assert.Equal(t, 0, created.Percentage)

	updated, err := svc.Upsert(ctx, 1, Update{TaskType: "review", TaskID: "t-1", Percentage: intPtr(60)})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, DefaultStatus, updated.Status)
	assert.Equal(t, 60, updated.Percentage)

	done, err := svc.Upsert(ctx, 1, Update{TaskType: "review", TaskID: "t-1", Status: strPtr("COMPLETED")})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", done.Status)
	assert.Equal(t, 60, done.Percentage)

	entries, err := acts.List(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, ActionUpdate, entries[0].Action)
	assert.Equal(t, "Updated progress for review:t-1", entries[0].Description)
}

func TestGetIsScopedToUser(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Upsert(ctx, 1, Update{TaskType: "review", TaskID: "t-1"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, "review", "t-1")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHandler(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc, validator.New())
	app := fiber.New()
	me := func(c *fiber.Ctx) error {
		auth.SetPrincipal(c, auth.Principal{User: identity.User{ID: 3}})
		return c.Next()
	}
	app.Get("/api/progress", me, h.Get)
	app.Post("/api/progress", me, h.Upsert)

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/progress", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	assert.Equal(t, http.StatusOK, post(`{"taskType":"review","taskId":"t-9","percentage":25}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(`{"taskType":"review"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(`{"taskType":"review","taskId":"x","percentage":140}`).StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/progress?taskType=review&taskId=t-9", nil))
	require.NoError(t, err)
	var one struct {
		Progress *Progress `json:"progress"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	require.NotNil(t, one.Progress)
	assert.Equal(t, 25, one.Progress.Percentage)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/progress?taskType=review&taskId=missing", nil))
	require.NoError(t, err)
	one.Progress = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	assert.Nil(t, one.Progress)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/progress", nil))
	require.NoError(t, err)
	var all struct {
		Progress []Progress `json:"progress"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&all))
	assert.Len(t, all.Progress, 1)
}
