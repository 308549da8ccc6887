package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repair-shop/internal/core/database"
	"repair-shop/internal/features/customers/adapters"
	"repair-shop/internal/features/customers/domain"
	"repair-shop/internal/features/customers/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := NewCustomerHandler(service.NewCustomerService(adapters.NewSQLiteCustomerRepository(db)))
	app := fiber.New()
	app.Post("/customers", h.RegisterContact)
	app.Get("/admin/customers", h.ListCustomers)
	app.Get("/admin/customers/:id", h.GetCustomer)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (*http.Response, domain.Customer) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var c domain.Customer
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &c)
	return resp, c
}

func TestCustomerHandler_RegisterContact(t *testing.T) {
	app := setupApp(t)

	resp, first := post(t, app, `{"name":"Ana","phone":"099 123 456","device":{"brand":"Apple","model":"iPhone 11"}}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "099123456", first.Phone)

	resp, second := post(t, app, `{"name":"Ana","phone":"099123456","email":"ana@example.com"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "ana@example.com", second.Email)
	assert.Len(t, second.Devices, 1)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/customers/"+first.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin/customers?q=ana", nil))
	require.NoError(t, err)
	var list []domain.Customer
	data, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 1)
}

func TestCustomerHandler_RegisterContact_Invalid(t *testing.T) {
	app := setupApp(t)

	resp, _ := post(t, app, `{"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, app, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCustomerHandler_GetCustomer_NotFound(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/customers/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
