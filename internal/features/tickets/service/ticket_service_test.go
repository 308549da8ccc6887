package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"repair-shop/internal/core/database"
	"repair-shop/internal/core/events"
	customeradapters "repair-shop/internal/features/customers/adapters"
	customers "repair-shop/internal/features/customers/domain"
	customerservice "repair-shop/internal/features/customers/service"
	"repair-shop/internal/features/tickets/adapters"
	"repair-shop/internal/features/tickets/domain"
	"repair-shop/internal/features/tickets/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher keeps published events in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Name
	}
	return out
}

type testEnv struct {
	svc       *TicketService
	customers *customerservice.CustomerService
	pub       *recordingPublisher
}

func newTestEnv(t *testing.T, policy domain.TransitionPolicy) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		customers: customerservice.NewCustomerService(customeradapters.NewSQLiteCustomerRepository(db)),
		pub:       &recordingPublisher{},
	}
	env.svc = NewTicketService(adapters.NewSQLiteTicketRepository(db), env.customers, env.pub, policy)
	return env
}

func intake() CreateTicketInput {
	return CreateTicketInput{
		Contact:     &customers.Contact{Name: "Ana", Phone: "099 123 456"},
		DeviceBrand: "Samsung",
		DeviceModel: "Galaxy A52",
		Fault:       "No carga",
	}
}

func TestTicketService_CreateThenReady(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	ticket, err := env.svc.Create(ctx, intake())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReceived, ticket.Status)
	assert.Equal(t, "SAT-00001", ticket.Number)
	assert.NotEmpty(t, ticket.CustomerID)

	ticket, err = env.svc.UpdateStatus(ctx, ticket.ID, "ready")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, ticket.Status)

	info := ticket.Status.Info()
	assert.Equal(t, "¡Listo para Retirar!", info.Label)
	assert.False(t, info.Terminal)

	assert.Equal(t, []string{events.TicketCreated, events.TicketStatusChanged}, env.pub.names())
	change, ok := env.pub.events[1].Payload.(StatusChange)
	require.True(t, ok)
	assert.Equal(t, domain.StatusReceived, change.From)
	assert.Equal(t, "¡Listo para Retirar!", change.To.Label)
}

func TestTicketService_CreateRegistersCustomerDevice(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.svc.Create(ctx, intake())
	require.NoError(t, err)
	second, err := env.svc.Create(ctx, intake())
	require.NoError(t, err)
	assert.Equal(t, first.CustomerID, second.CustomerID)

	customer, err := env.customers.GetCustomer(ctx, first.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, []customers.Device{{Brand: "Samsung", Model: "Galaxy A52"}}, customer.Devices)
}

func TestTicketService_CreateValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	in := intake()
	in.Priority = "whenever"
	_, err := env.svc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	in = intake()
	in.Fault = ""
	_, err = env.svc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrFaultRequired)

	in = intake()
	in.Contact.Name = ""
	_, err = env.svc.Create(ctx, in)
	assert.ErrorIs(t, err, customers.ErrNameRequired)

	assert.Empty(t, env.pub.names())
	registered, err := env.customers.ListCustomers(ctx, customers.CustomerFilter{})
	require.NoError(t, err)
	assert.Empty(t, registered, "a rejected intake must not register its contact")
}

func TestTicketService_UpdateStatusErrors(t *testing.T) {
	env := newTestEnv(t, domain.Strict{})
	ctx := context.Background()

	ticket, err := env.svc.Create(ctx, intake())
	require.NoError(t, err)

	_, err = env.svc.UpdateStatus(ctx, ticket.ID, "teleported")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = env.svc.UpdateStatus(ctx, "missing", "ready")
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)

	_, err = env.svc.UpdateStatus(ctx, ticket.ID, "delivered")
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(ctx, ticket.ID, "diagnosing")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	same, err := env.svc.UpdateStatus(ctx, ticket.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, same.Status)
	assert.Equal(t, []string{events.TicketCreated, events.TicketStatusChanged}, env.pub.names(), "no event when nothing changed")
}

func TestTicketService_PublishFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t, nil)
	env.pub.err = errors.New("broker down")

	ticket, err := env.svc.Create(context.Background(), intake())
	require.NoError(t, err)
	_, err = env.svc.UpdateStatus(context.Background(), ticket.ID, "diagnosing")
	require.NoError(t, err)
}

func TestTicketService_TrackAndMutations(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	ticket, err := env.svc.Create(ctx, intake())
	require.NoError(t, err)

	quote := decimal.NewFromInt(1800)
	_, err = env.svc.SetDiagnosis(ctx, ticket.ID, "Puerto de carga dañado", &quote)
	require.NoError(t, err)
	_, err = env.svc.AddPhotos(ctx, ticket.ID, domain.PhotoIntake, []string{"in1.jpg"})
	require.NoError(t, err)
	_, err = env.svc.AddPhotos(ctx, ticket.ID, "later", []string{"x.jpg"})
	assert.ErrorIs(t, err, domain.ErrInvalidPhotoKind)
	_, err = env.svc.Sign(ctx, ticket.ID, "sig.png")
	require.NoError(t, err)

	view, err := env.svc.Track(ctx, "sat-00001")
	require.NoError(t, err)
	assert.Equal(t, "SAT-00001", view.Number)
	assert.Equal(t, "Puerto de carga dañado", view.Diagnosis)
	assert.Equal(t, domain.StatusReceived, view.GlobalStatus.Status)

	_, err = env.svc.Track(ctx, "SAT-00999")
	assert.ErrorIs(t, err, domain.ErrTicketNotFound)

	stored, err := env.svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"in1.jpg"}, stored.IntakePhotos)
	assert.Equal(t, "sig.png", stored.Signature)
}

func TestTicketService_ListAndCounts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	normal, err := env.svc.Create(ctx, intake())
	require.NoError(t, err)
	in := intake()
	in.Priority = "urgent"
	urgent, err := env.svc.Create(ctx, in)
	require.NoError(t, err)

	list, err := env.svc.List(ctx, domain.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, urgent.ID, list[0].ID)
	assert.Equal(t, normal.ID, list[1].ID)

	counts, err := env.svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, 7)
	assert.Equal(t, 2, counts[domain.StatusReceived])
	assert.Equal(t, 0, counts[domain.StatusRejected])
}

// slowReadRepo widens the gap between reading a ticket and writing it back.
type slowReadRepo struct {
	ports.TicketRepository
}

func (r slowReadRepo) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	t, err := r.TicketRepository.Get(ctx, id)
	time.Sleep(5 * time.Millisecond)
	return t, err
}

func TestTicketService_ConcurrentUpdatesKeepEveryChange(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewTicketService(slowReadRepo{adapters.NewSQLiteTicketRepository(db)}, nil, &recordingPublisher{}, nil)
	ctx := context.Background()

	in := intake()
	in.Contact = nil
	ticket, err := svc.Create(ctx, in)
	require.NoError(t, err)

	const photos = 8
	var wg sync.WaitGroup
	errs := make(chan error, photos+1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.UpdateStatus(ctx, ticket.ID, string(domain.StatusReady))
		errs <- err
	}()
	for i := 0; i < photos; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddPhotos(ctx, ticket.ID, domain.PhotoRepair, []string{fmt.Sprintf("after-%d.jpg", i)})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.Get(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)
	assert.Len(t, got.RepairPhotos, photos)
}
