// Package cli holds the cobra commands of the clientes binary.
package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/nicolas44373/clientes/internal/config"
	"github.com/nicolas44373/clientes/internal/customers"
	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
	"github.com/nicolas44373/clientes/internal/storage"
	"github.com/nicolas44373/clientes/internal/storage/memory"
)

// options are the persistent flags shared by every command. Empty values
// leave the environment configuration untouched.
type options struct {
	store    string
	dsn      string
	dbName   string
	timezone string

	now func() time.Time
}

// Execute runs the root command.
func Execute() {
	cobra.OnInitialize(config.LoadDotEnv)
	if err := NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{})
}

func newRootCommand(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "clientes",
		Short: "Customer list with due-date tracking",
		Long: `clientes keeps a list of customers and tracks, for each one, the due date
eight days after its reference date. It serves a JSON API, prints reports,
imports and exports CSV, and has an interactive terminal view.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.store, "store", "", "Store backend: memory, sqlite, postgres or mongo (env CLIENTES_STORE)")
	pf.StringVar(&o.dsn, "dsn", "", "Database file, connection string or Mongo URI (env CLIENTES_DSN)")
	pf.StringVar(&o.dbName, "db-name", "", "Mongo database name (env CLIENTES_DB_NAME)")
	pf.StringVar(&o.timezone, "tz", "", "Timezone deciding what today is (env CLIENTES_TZ)")

	root.AddCommand(
		newServeCommand(o),
		newListCommand(o),
		newDueCommand(o),
		newImportCommand(o),
		newExportCommand(o),
		newTUICommand(o),
	)
	return root
}

func (o *options) config() (config.Config, error) {
	cfg := config.FromEnv()
	if o.store != "" {
		cfg.Store = o.store
	}
	if o.dsn != "" {
		cfg.DSN = o.dsn
	}
	if o.dbName != "" {
		cfg.DBName = o.dbName
	}
	if o.timezone != "" {
		cfg.Timezone = o.timezone
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openService connects the configured store and builds the customer service
// on top of it. The returned function releases the store.
func (o *options) openService(ctx context.Context) (*customers.Service, config.Config, func() error, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, cfg, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, cfg, nil, err
	}

	store, closeFn, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	enricher := due.NewEnricher(loc)
	if o.now != nil {
		enricher.Now = o.now
	}
	svc := customers.NewService(store, enricher, customers.WithFallback(func() []domain.Customer {
		return memory.SeedCustomers(enricher.Today())
	}))
	return svc, cfg, closeFn, nil
}
