package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicolas44373/clientes/internal/domain"
)

// openLive connects to the server in CLIENTES_MONGO_URI using a throwaway
// database. Skipped when the variable is unset.
func openLive(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("CLIENTES_MONGO_URI")
	if uri == "" {
		t.Skip("CLIENTES_MONGO_URI not set")
	}

	dbName := fmt.Sprintf("clientes_test_%d", time.Now().UnixNano())
	store, err := Open(context.Background(), uri, dbName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.customers.Database().Drop(context.Background())
		store.Close()
	})
	return store
}

func TestCustomersRoundTrip(t *testing.T) {
	store := openLive(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, domain.Customer{Code: 2, Description: "Globex", Status: "rojo"}))
	require.NoError(t, store.Insert(ctx, domain.Customer{Code: 1, Description: "Acme", Status: "activo", ReferenceDate: "01/02/2024"}))
	assert.ErrorIs(t, store.Insert(ctx, domain.Customer{Code: 1, Description: "dup"}), domain.ErrConflict)

	status := "inactivo"
	require.NoError(t, store.Update(ctx, 1, domain.CustomerUpdate{Status: &status}))
	assert.ErrorIs(t, store.Update(ctx, 9, domain.CustomerUpdate{Status: &status}), domain.ErrNotFound)

	got, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Customer{Code: 1, Description: "Acme", Status: "inactivo", ReferenceDate: "01/02/2024"}, got[0])

	require.NoError(t, store.DeleteByKey(ctx, 2))
	assert.ErrorIs(t, store.DeleteByKey(ctx, 2), domain.ErrNotFound)
}

func TestDatesRoundTrip(t *testing.T) {
	store := openLive(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, domain.Customer{Code: 1, Description: "Acme", Status: "activo"}))

	later, err := store.InsertDate(ctx, 1, "2024-03-01")
	require.NoError(t, err)
	earlier, err := store.InsertDate(ctx, 1, "2024-01-01")
	require.NoError(t, err)

	dates, err := store.ListDates(ctx, 1)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, earlier.ID, dates[0].ID)
	assert.Equal(t, later.ID, dates[1].ID)

	require.NoError(t, store.DeleteDate(ctx, 1, earlier.ID))
	assert.ErrorIs(t, store.DeleteDate(ctx, 1, earlier.ID), domain.ErrNotFound)

	_, err = store.InsertDate(ctx, 404, "2024-01-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
