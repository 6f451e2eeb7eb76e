package sqlstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolas44373/clientes/internal/domain"
)

// openTestStore opens an in-memory SQLite database with the schema applied.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func insertCustomers(t *testing.T, store *Store, customers ...domain.Customer) {
	t.Helper()
	for _, c := range customers {
		require.NoError(t, store.Insert(context.Background(), c))
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.Error(t, err)
}

func TestFetchAll(t *testing.T) {
	store := openTestStore(t)
	insertCustomers(t, store,
		domain.Customer{Code: 2, Description: "Globex", Status: "rojo", ReferenceDate: "20/01/2024"},
		domain.Customer{Code: 1, Description: "Acme", Status: "Activo", ReferenceDate: "01/02/2024", Phone: "555-1234"},
	)

	got, err := store.FetchAll(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Customer{Code: 1, Description: "Acme", Status: "Activo", ReferenceDate: "01/02/2024", Phone: "555-1234"}, got[0])
	assert.Equal(t, 2, got[1].Code)
}

func TestFetchAllEmpty(t *testing.T) {
	store := openTestStore(t)

	got, err := store.FetchAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInsertDuplicate(t *testing.T) {
	store := openTestStore(t)
	insertCustomers(t, store, domain.Customer{Code: 1, Description: "Acme", Status: "activo"})

	err := store.Insert(context.Background(), domain.Customer{Code: 1, Description: "Other", Status: "rojo"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	insertCustomers(t, store, domain.Customer{Code: 1, Description: "Acme", Status: "activo", Phone: "555"})

	status, ref := "rojo", "10/02/2024"
	require.NoError(t, store.Update(ctx, 1, domain.CustomerUpdate{Status: &status, ReferenceDate: &ref}))

	got, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Description)
	assert.Equal(t, "rojo", got[0].Status)
	assert.Equal(t, "10/02/2024", got[0].ReferenceDate)
	assert.Equal(t, "555", got[0].Phone)
}

func TestUpdateMissing(t *testing.T) {
	store := openTestStore(t)
	name := "x"

	err := store.Update(context.Background(), 9, domain.CustomerUpdate{Description: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Update(context.Background(), 9, domain.CustomerUpdate{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteByKeyRemovesDates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	insertCustomers(t, store,
		domain.Customer{Code: 1, Description: "Acme", Status: "activo"},
		domain.Customer{Code: 2, Description: "Globex", Status: "rojo"},
	)
	_, err := store.InsertDate(ctx, 1, "2024-02-01")
	require.NoError(t, err)
	_, err = store.InsertDate(ctx, 2, "2024-02-02")
	require.NoError(t, err)

	require.NoError(t, store.DeleteByKey(ctx, 1))

	got, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Code)

	dates, err := store.ListDates(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, dates)
	dates, err = store.ListDates(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, dates, 1)

	assert.ErrorIs(t, store.DeleteByKey(ctx, 1), domain.ErrNotFound)
}

func TestDates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	insertCustomers(t, store, domain.Customer{Code: 1, Description: "Acme", Status: "activo"})

	second, err := store.InsertDate(ctx, 1, "2024-03-01")
	require.NoError(t, err)
	first, err := store.InsertDate(ctx, 1, "2024-01-15")
	require.NoError(t, err)

	dates, err := store.ListDates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, first.ID, dates[0].ID)
	assert.Equal(t, second.ID, dates[1].ID)
	assert.False(t, dates[0].CreatedAt.IsZero())

	assert.ErrorIs(t, store.DeleteDate(ctx, 2, first.ID), domain.ErrNotFound)
	require.NoError(t, store.DeleteDate(ctx, 1, first.ID))
	assert.ErrorIs(t, store.DeleteDate(ctx, 1, first.ID), domain.ErrNotFound)

	_, err = store.InsertDate(ctx, 404, "2024-01-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	lite := &Store{driver: DriverSQLite}
	q := "UPDATE customers SET a = ?, b = ? WHERE code = ?"

	assert.Equal(t, "UPDATE customers SET a = $1, b = $2 WHERE code = $3", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

// TestPostgres runs against a real PostgreSQL when CLIENTES_PG_DSN is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("CLIENTES_PG_DSN")
	if dsn == "" {
		t.Skip("CLIENTES_PG_DSN not set")
	}
	ctx := context.Background()

	store, err := Open(ctx, DriverPostgres, dsn)
	require.NoError(t, err)
	defer store.Close()

	const code = 987654
	_ = store.DeleteByKey(ctx, code)
	insertCustomers(t, store, domain.Customer{Code: code, Description: "pg test", Status: "activo"})
	defer store.DeleteByKey(ctx, code)

	assert.ErrorIs(t, store.Insert(ctx, domain.Customer{Code: code, Description: "dup", Status: "activo"}), domain.ErrConflict)

	entry, err := store.InsertDate(ctx, code, "2024-02-01")
	require.NoError(t, err)
	dates, err := store.ListDates(ctx, code)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, entry.ID, dates[0].ID)
}
