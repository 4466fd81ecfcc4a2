package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.NoError(t, cfg.Validate())

	live, err := cfg.Cache.LiveTTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, live)

	history, err := cfg.Cache.HistoryTTLDuration()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, history)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
ledger:
  path: /tmp/folio.db
api:
  base_url: http://localhost:9999
  key: demo-key
cache:
  live_ttl: 10s
  history_ttl: 2m
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/folio.db", cfg.Ledger.Path)
	assert.Equal(t, "http://localhost:9999", cfg.API.BaseURL)
	assert.Equal(t, "demo-key", cfg.API.Key)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"ledger": {"path": "./x.db"},
		"cache": {"live_ttl": "15s", "history_ttl": "1m"},
		"logging": {"level": "info", "format": "text"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./x.db", cfg.Ledger.Path)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing ledger path": "cache: {live_ttl: 30s, history_ttl: 5m}\nlogging: {format: text}\n",
		"bad ttl":             "ledger: {path: x.db}\ncache: {live_ttl: soon, history_ttl: 5m}\nlogging: {format: text}\n",
		"bad format":          "ledger: {path: x.db}\ncache: {live_ttl: 30s, history_ttl: 5m}\nlogging: {format: xml}\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := LoadFromFile(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := Default()
	cfg.API.Key = "k"

	for _, name := range []string{"c.yaml", "c.json"} {
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, got)
	}
}
