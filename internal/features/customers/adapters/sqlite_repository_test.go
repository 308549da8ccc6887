package adapters

import (
	"context"
	"testing"

	"repair-shop/internal/core/database"
	"repair-shop/internal/features/customers/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *SQLiteCustomerRepository {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteCustomerRepository(db)
}

func mustCustomer(t *testing.T, name, phone string) *domain.Customer {
	t.Helper()
	c, err := domain.NewCustomer(domain.Contact{Name: name, Phone: phone})
	require.NoError(t, err)
	return c
}

func TestSQLiteCustomerRepository_SaveAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	c := mustCustomer(t, "Ana", "099 123 456")
	c.AddDevice(domain.Device{Brand: "Samsung", Model: "A52"})
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, []domain.Device{{Brand: "Samsung", Model: "A52"}}, got.Devices)

	byPhone, err := repo.FindByPhone(ctx, "099-123-456")
	require.NoError(t, err)
	assert.Equal(t, c.ID, byPhone.ID)

	c.Notes = "Prefiere WhatsApp"
	require.NoError(t, repo.Save(ctx, c))
	got, err = repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prefiere WhatsApp", got.Notes)
}

func TestSQLiteCustomerRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)

	_, err = repo.FindByPhone(context.Background(), "000")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestSQLiteCustomerRepository_PhoneIsUnique(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustCustomer(t, "Ana", "099123456")))
	assert.Error(t, repo.Save(ctx, mustCustomer(t, "Otra Ana", "099123456")))
}

func TestSQLiteCustomerRepository_List(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, c := range []*domain.Customer{
		mustCustomer(t, "Carlos", "091000111"),
		mustCustomer(t, "ana", "099123456"),
		mustCustomer(t, "Beatriz", "098555444"),
	} {
		require.NoError(t, repo.Save(ctx, c))
	}

	all, err := repo.List(ctx, domain.CustomerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"ana", "Beatriz", "Carlos"}, []string{all[0].Name, all[1].Name, all[2].Name})

	byName, err := repo.List(ctx, domain.CustomerFilter{Query: "BEA"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Beatriz", byName[0].Name)

	byPhone, err := repo.List(ctx, domain.CustomerFilter{Query: "091 000"})
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Carlos", byPhone[0].Name)

	limited, err := repo.List(ctx, domain.CustomerFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
