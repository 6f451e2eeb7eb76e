package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"CLIENTES_ADDR", "CLIENTES_STORE", "CLIENTES_DSN", "CLIENTES_DB_NAME", "CLIENTES_TZ"} {
		t.Setenv(key, "")
	}

	assert.Equal(t, Default(), FromEnv())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CLIENTES_ADDR", ":9090")
	t.Setenv("CLIENTES_STORE", StorePostgres)
	t.Setenv("CLIENTES_DSN", "postgres://localhost/clientes")
	t.Setenv("CLIENTES_DB_NAME", "other")
	t.Setenv("CLIENTES_TZ", "America/Argentina/Buenos_Aires")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "postgres://localhost/clientes", cfg.DSN)
	assert.Equal(t, "other", cfg.DBName)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "redis" }, wantErr: true},
		{name: "sqlite without dsn", mutate: func(c *Config) { c.Store = StoreSQLite; c.DSN = "" }, wantErr: true},
		{name: "memory without dsn", mutate: func(c *Config) { c.DSN = "" }},
		{name: "sqlite default dsn", mutate: func(c *Config) { c.Store = StoreSQLite }},
		{name: "postgres default dsn", mutate: func(c *Config) { c.Store = StorePostgres }, wantErr: true},
		{name: "mongo default dsn", mutate: func(c *Config) { c.Store = StoreMongo }, wantErr: true},
		{name: "mongo with uri", mutate: func(c *Config) { c.Store = StoreMongo; c.DSN = "mongodb://localhost:27017" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLocation(t *testing.T) {
	loc, err := Default().Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg := Default()
	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
