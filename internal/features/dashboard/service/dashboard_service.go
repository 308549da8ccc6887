package service

import (
	"context"
	"fmt"
	"time"

	catalog "repair-shop/internal/features/catalog/domain"
	"repair-shop/internal/features/dashboard/domain"
	"repair-shop/internal/features/dashboard/ports"
	tickets "repair-shop/internal/features/tickets/domain"

	"golang.org/x/sync/errgroup"
)

const urgentLimit = 20

// DashboardService assembles the admin overview from the other features.
type DashboardService struct {
	tickets ports.TicketStats
	stock   ports.StockReport
	orders  ports.OrderStats
	now     func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(t ports.TicketStats, s ports.StockReport, o ports.OrderStats) *DashboardService {
	return &DashboardService{tickets: t, stock: s, orders: o, now: time.Now}
}

// Summary gathers ticket counts, urgent open tickets, low stock and order totals.
func (s *DashboardService) Summary(ctx context.Context) (*domain.Summary, error) {
	summary := &domain.Summary{GeneratedAt: s.now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.tickets.CountByStatus(gctx)
		if err != nil {
			return err
		}
		summary.TicketsByStatus = counts
		summary.OpenTickets = domain.CountOpen(counts)
		return nil
	})
	g.Go(func() error {
		urgent, err := s.tickets.List(gctx, tickets.TicketFilter{
			Priority: tickets.PriorityUrgent,
			OpenOnly: true,
			Limit:    urgentLimit,
		})
		if err != nil {
			return err
		}
		summary.UrgentTickets = urgent
		return nil
	})
	g.Go(func() error {
		low, err := s.stock.LowStock(gctx)
		if err != nil {
			return err
		}
		summary.LowStock = low
		return nil
	})
	g.Go(func() error {
		totals, err := s.orders.Totals(gctx)
		if err != nil {
			return err
		}
		summary.Orders = totals
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service: failed to build dashboard: %w", err)
	}
	if summary.UrgentTickets == nil {
		summary.UrgentTickets = []tickets.Ticket{}
	}
	if summary.LowStock == nil {
		summary.LowStock = []catalog.Product{}
	}
	return summary, nil
}
