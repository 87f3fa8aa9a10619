package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadFullConfig(t *testing.T) {
	p := writeTemp(t, `
database:
  host: db.local
  port: 5433
  user: app
  password: secret
  database: tableside
rabbitmq:
  host: mq.local
  user: guest
  password: guest
http:
  port: 8080
provision:
  tables: 20
logging:
  level: debug
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode) // default survives
	assert.Equal(t, "/", cfg.RabbitMQ.VHost)         // default survives
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 20, cfg.Provision.Tables)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadIncompleteConfig(t *testing.T) {
	p := writeTemp(t, `
database:
  host: db.local
`)
	_, err := Load(p)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	p := writeTemp(t, "database: [not a map")
	_, err := Load(p)
	assert.Error(t, err)
}
