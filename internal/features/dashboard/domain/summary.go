package domain

import (
	"time"

	catalog "repair-shop/internal/features/catalog/domain"
	orders "repair-shop/internal/features/orders/domain"
	tickets "repair-shop/internal/features/tickets/domain"
)

// Summary is the admin overview of the shop.
type Summary struct {
	// TicketsByStatus carries every status, zero counts included.
	TicketsByStatus map[tickets.Status]int `json:"tickets_by_status"`
	OpenTickets     int                    `json:"open_tickets"`
	UrgentTickets   []tickets.Ticket       `json:"urgent_tickets"`
	LowStock        []catalog.Product      `json:"low_stock"`
	Orders          orders.Totals          `json:"orders"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// CountOpen sums the counts of non-terminal statuses.
func CountOpen(counts map[tickets.Status]int) int {
	open := 0
	for status, n := range counts {
		if !status.IsTerminal() {
			open += n
		}
	}
	return open
}
