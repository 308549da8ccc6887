package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"repair-shop/internal/core/database"
	"repair-shop/internal/core/events"
	catalogadapters "repair-shop/internal/features/catalog/adapters"
	"repair-shop/internal/features/dashboard/service"
	orderadapters "repair-shop/internal/features/orders/adapters"
	orderservice "repair-shop/internal/features/orders/service"
	ticketadapters "repair-shop/internal/features/tickets/adapters"
	ticketservice "repair-shop/internal/features/tickets/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := events.NewLogPublisher(zap.NewNop())
	svc := service.NewDashboardService(
		ticketservice.NewTicketService(ticketadapters.NewSQLiteTicketRepository(db), nil, pub, nil),
		catalogadapters.NewFixtureProvider(),
		orderservice.NewOrderService(orderadapters.NewSQLiteOrderRepository(db), pub),
	)

	app := fiber.New()
	app.Get("/admin/dashboard", NewDashboardHandler(svc).GetDashboard)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		TicketsByStatus map[string]int    `json:"tickets_by_status"`
		UrgentTickets   []json.RawMessage `json:"urgent_tickets"`
		Orders          struct {
			Count   int    `json:"count"`
			Revenue string `json:"revenue"`
		} `json:"orders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	for _, key := range []string{"received", "diagnosing", "awaiting_part", "in_progress", "ready", "delivered", "rejected"} {
		assert.Contains(t, body.TicketsByStatus, key)
	}
	assert.NotNil(t, body.UrgentTickets)
	assert.Equal(t, 0, body.Orders.Count)
	assert.Equal(t, "0", body.Orders.Revenue)
}
