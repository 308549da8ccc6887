package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchemaAndSeeds(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM products`))
	assert.Equal(t, len(demoCatalog), n)

	for _, table := range []string{"customers", "tickets", "orders", "order_items"} {
		require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table), table)
		assert.Zero(t, n, table)
	}
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	inserted, err := seedCatalog(db)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	require.NoError(t, EnsureSchema(db))
}

func TestSchema_RejectsUnknownTicketStatus(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO tickets(id, seq, ticket_number, status, priority, created_at, updated_at)
		VALUES ('t1', 1, 'SAT-00001', 'lost', 'normal', 'now', 'now')`)
	assert.Error(t, err)
}

func TestFormatTime_SortsChronologically(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 5, 0, time.UTC)
	later := base.Add(100 * time.Millisecond)

	assert.Less(t, FormatTime(base), FormatTime(later))

	parsed, err := ParseTime(FormatTime(later))
	require.NoError(t, err)
	assert.True(t, later.Equal(parsed))

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}
