package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repair-shop/internal/core/cache"
	"repair-shop/internal/features/notices/adapters"
	"repair-shop/internal/features/notices/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	h := NewNoticeHandler(service.NewNoticeService(adapters.NewCacheNoticeRepository(c)))
	app := fiber.New()
	app.Get("/notice", h.GetNotice)
	app.Put("/admin/notice", h.SetNotice)
	app.Delete("/admin/notice", h.RemoveNotice)
	return app, mr
}

func send(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestNoticeHandler_Lifecycle(t *testing.T) {
	app, _ := setupApp(t)

	assert.Equal(t, http.StatusNotFound, send(t, app, http.MethodGet, "/notice", "").StatusCode)

	resp := send(t, app, http.MethodPut, "/admin/notice", `{"title":"Cerrado el 1 de mayo","kind":"closed"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, http.StatusOK, send(t, app, http.MethodGet, "/notice", "").StatusCode)

	assert.Equal(t, http.StatusNoContent, send(t, app, http.MethodDelete, "/admin/notice", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, send(t, app, http.MethodGet, "/notice", "").StatusCode)
}

func TestNoticeHandler_Validation(t *testing.T) {
	app, _ := setupApp(t)

	assert.Equal(t, http.StatusBadRequest, send(t, app, http.MethodPut, "/admin/notice", `{`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(t, app, http.MethodPut, "/admin/notice", `{"title":"x","kind":"DANGER"}`).StatusCode)
	assert.Equal(t, http.StatusBadRequest, send(t, app, http.MethodPut, "/admin/notice", `{"title":""}`).StatusCode)
}

func TestNoticeHandler_BackendDown(t *testing.T) {
	app, mr := setupApp(t)
	mr.Close()

	assert.Equal(t, http.StatusInternalServerError, send(t, app, http.MethodGet, "/notice", "").StatusCode)
}
