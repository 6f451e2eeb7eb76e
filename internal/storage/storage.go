// Package storage selects the customer store backend from configuration.
package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/nicolas44373/clientes/internal/config"
	"github.com/nicolas44373/clientes/internal/customers"
	"github.com/nicolas44373/clientes/internal/storage/memory"
	"github.com/nicolas44373/clientes/internal/storage/mongostore"
	"github.com/nicolas44373/clientes/internal/storage/sqlstore"
)

// Open returns the store named by cfg.Store and a function releasing it.
func Open(ctx context.Context, cfg config.Config) (customers.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreMemory:
		log.Printf("using in-memory store with demonstration data")
		return memory.NewStore(), noop, nil
	case config.StoreSQLite:
		s, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("using SQLite store at %s", cfg.DSN)
		return s, s.Close, nil
	case config.StorePostgres:
		s, err := sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("using PostgreSQL store")
		return s, s.Close, nil
	case config.StoreMongo:
		s, err := mongostore.Open(ctx, cfg.DSN, cfg.DBName)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
