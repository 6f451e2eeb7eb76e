// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// DefaultSQLiteDSN is the database file used when nothing else is configured.
const DefaultSQLiteDSN = "clientes.db"

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr     string
	Store    string
	DSN      string
	DBName   string
	Timezone string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:   ":8080",
		Store:  StoreMemory,
		DSN:    DefaultSQLiteDSN,
		DBName: "clientes",
	}
}

// LoadDotEnv loads .env from the working directory when present.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}
}

// FromEnv overlays CLIENTES_* environment variables on top of Default.
func FromEnv() Config {
	cfg := Default()
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Addr, "CLIENTES_ADDR")
	override(&cfg.Store, "CLIENTES_STORE")
	override(&cfg.DSN, "CLIENTES_DSN")
	override(&cfg.DBName, "CLIENTES_DB_NAME")
	override(&cfg.Timezone, "CLIENTES_TZ")
	return cfg
}

// Validate checks the store name and timezone.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("unknown store %q (want memory, sqlite, postgres or mongo)", c.Store)
	}
	switch {
	case c.Store != StoreMemory && c.DSN == "":
		return fmt.Errorf("store %s needs a DSN", c.Store)
	case (c.Store == StorePostgres || c.Store == StoreMongo) && c.DSN == DefaultSQLiteDSN:
		return fmt.Errorf("store %s needs a connection string in CLIENTES_DSN or --dsn", c.Store)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the timezone used to decide what "today" is.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
