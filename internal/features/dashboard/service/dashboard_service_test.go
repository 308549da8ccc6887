package service

import (
	"context"
	"errors"
	"testing"

	"repair-shop/internal/core/database"
	"repair-shop/internal/core/events"
	catalogadapters "repair-shop/internal/features/catalog/adapters"
	catalog "repair-shop/internal/features/catalog/domain"
	orderadapters "repair-shop/internal/features/orders/adapters"
	orders "repair-shop/internal/features/orders/domain"
	orderservice "repair-shop/internal/features/orders/service"
	ticketadapters "repair-shop/internal/features/tickets/adapters"
	tickets "repair-shop/internal/features/tickets/domain"
	ticketservice "repair-shop/internal/features/tickets/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := events.NewLogPublisher(zap.NewNop())
	ts := ticketservice.NewTicketService(ticketadapters.NewSQLiteTicketRepository(db), nil, pub, nil)
	ords := orderservice.NewOrderService(orderadapters.NewSQLiteOrderRepository(db), pub)

	low, err := catalog.NewProduct("ssd-1tb", "SSD-1TB", "SSD 1TB", decimal.NewFromInt(4990), 1, 2, "almacenamiento")
	require.NoError(t, err)
	stocked, err := catalog.NewProduct("ram-8", "RAM-8", "RAM 8GB", decimal.NewFromInt(1490), 10, 2, "memoria")
	require.NoError(t, err)
	stock := catalogadapters.NewFixtureProviderWith([]catalog.Product{*low, *stocked})

	urgent, err := ts.Create(ctx, ticketservice.CreateTicketInput{DeviceBrand: "Apple", DeviceModel: "iPhone 13", Fault: "Pantalla", Priority: "urgent"})
	require.NoError(t, err)
	_, err = ts.Create(ctx, ticketservice.CreateTicketInput{DeviceBrand: "HP", DeviceModel: "Pavilion", Fault: "No enciende"})
	require.NoError(t, err)
	done, err := ts.Create(ctx, ticketservice.CreateTicketInput{DeviceBrand: "Dell", DeviceModel: "XPS", Fault: "Teclado", Priority: "urgent"})
	require.NoError(t, err)
	_, err = ts.UpdateStatus(ctx, done.ID, string(tickets.StatusDelivered))
	require.NoError(t, err)

	order, err := orders.NewOrder("sess-1", []orders.OrderLine{{ProductID: "ram-8", SKU: "RAM-8", Name: "RAM 8GB", UnitPrice: decimal.NewFromInt(1490), Quantity: 2}})
	require.NoError(t, err)
	require.NoError(t, ords.Place(ctx, order))

	summary, err := NewDashboardService(ts, stock, ords).Summary(ctx)
	require.NoError(t, err)

	assert.Len(t, summary.TicketsByStatus, 7)
	assert.Equal(t, 2, summary.TicketsByStatus[tickets.StatusReceived])
	assert.Equal(t, 1, summary.TicketsByStatus[tickets.StatusDelivered])
	assert.Equal(t, 0, summary.TicketsByStatus[tickets.StatusReady])
	assert.Equal(t, 2, summary.OpenTickets)

	require.Len(t, summary.UrgentTickets, 1)
	assert.Equal(t, urgent.ID, summary.UrgentTickets[0].ID)

	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "ssd-1tb", summary.LowStock[0].ID)

	assert.Equal(t, 1, summary.Orders.Count)
	assert.Equal(t, "2980", summary.Orders.Revenue.String())
}

type failingOrders struct{}

func (failingOrders) Totals(context.Context) (orders.Totals, error) {
	return orders.Totals{}, errors.New("db locked")
}

type emptyTickets struct{}

func (emptyTickets) CountByStatus(context.Context) (map[tickets.Status]int, error) {
	return map[tickets.Status]int{}, nil
}

func (emptyTickets) List(context.Context, tickets.TicketFilter) ([]tickets.Ticket, error) {
	return nil, nil
}

func TestDashboardService_SourceFailure(t *testing.T) {
	_, err := NewDashboardService(emptyTickets{}, catalogadapters.NewFixtureProvider(), failingOrders{}).Summary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}
