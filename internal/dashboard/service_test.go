package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d0ughnat/Fruad-detection/internal/activity"
	"github.com/d0ughnat/Fruad-detection/internal/auth"
	"github.com/d0ughnat/Fruad-detection/internal/identity"
	"github.com/d0ughnat/Fruad-detection/internal/logging"
)

func repositories(t *testing.T) map[string]Repository {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"redis":  NewRedisRepository(client),
	}
}

func TestRepositoryContract(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first, err := repo.Put(ctx, 1, "widgets", []byte(`{"layout":"grid"}`))
			require.NoError(t, err)
			assert.NotEmpty(t, first.ID)

			second, err := repo.Put(ctx, 1, "widgets", []byte(`{"layout":"list"}`))
			require.NoError(t, err)
			assert.Equal(t, first.ID, second.ID)
			assert.True(t, second.CreatedAt.Equal(first.CreatedAt))

			got, err := repo.Get(ctx, 1, "widgets")
			require.NoError(t, err)
			assert.JSONEq(t, `{"layout":"list"}`, string(got.Data))

			_, err = repo.Get(ctx, 2, "widgets")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = repo.Put(ctx, 1, "filters", []byte(`["fraud"]`))
			require.NoError(t, err)
			list, err := repo.List(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, list, 2)

			require.NoError(t, repo.Delete(ctx, 1, "widgets"))
			assert.ErrorIs(t, repo.Delete(ctx, 1, "widgets"), ErrNotFound)
		})
	}
}

func TestServiceRecordsActivity(t *testing.T) {
	acts := activity.NewService(activity.NewMemoryRepository())
	svc := NewService(NewMemoryRepository(), acts, logging.Discard())
	ctx := context.Background()

	_, err := svc.Save(ctx, 1, "widgets", []byte(`{}`))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, "widgets"))

	_, err = svc.Save(ctx, 1, "", []byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalid)

	entries, err := acts.List(ctx, 1, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionDelete, entries[0].Action)
	assert.Equal(t, ActionSave, entries[1].Action)
	assert.Equal(t, "Saved dashboard data: widgets", entries[1].Description)
}

func TestHandler(t *testing.T) {
	acts := activity.NewService(activity.NewMemoryRepository())
	h := NewHandler(NewService(NewMemoryRepository(), acts, logging.Discard()), validator.New())
	app := fiber.New()
	me := func(c *fiber.Ctx) error {
		auth.SetPrincipal(c, auth.Principal{User: identity.User{ID: 8}})
		return c.Next()
	}
	app.Get("/api/dashboard-data", me, h.Get)
	app.Post("/api/dashboard-data", me, h.Save)
	app.Delete("/api/dashboard-data", me, h.Delete)

	req := httptest.NewRequest(http.MethodPost, "/api/dashboard-data", strings.NewReader(`{"dataType":"charts","data":{"range":"7d"}}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/dashboard-data", strings.NewReader(`{"dataType":"charts"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard-data?dataType=charts", nil))
	require.NoError(t, err)
	var one struct {
		DashboardData Data `json:"dashboardData"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&one))
	assert.JSONEq(t, `{"range":"7d"}`, string(one.DashboardData.Data))

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/dashboard-data", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/dashboard-data?dataType=charts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/dashboard-data?dataType=charts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
