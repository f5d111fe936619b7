package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	path := writeConfig(t, `
Server:
  Port: "8080"
Database:
  Host: localhost
  Port: "5432"
  User: tradevault
  Password: secret
  Name: tradevault
  SSLMode: require
Store:
  OpTimeoutSeconds: 3
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 3*time.Second, cfg.Store.OpTimeout())

	assert.Equal(t,
		"host=localhost port=5432 user=tradevault password=secret dbname=tradevault sslmode=require",
		cfg.Database.GetDSN())
}

func TestNewConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
Database:
  Host: db
  Port: "5432"
  User: u
  Password: p
  Name: store
`)

	cfg, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "2526", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10*time.Second, cfg.Store.OpTimeout())
}

func TestNewConfig_Incomplete(t *testing.T) {
	path := writeConfig(t, `
Database:
  Host: db
`)

	_, err := NewConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database configuration is incomplete")
}
