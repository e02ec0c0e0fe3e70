package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "ledger.jsonl", cfg.LedgerFile)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, tally.DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Empty(t, cfg.Classifier())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.toml")
	content := `
ledger_file = "home.jsonl"
currency = "USD"
cache_size = 4

[logging]
level = "debug"

[tax_rules.salary]
basis = "wages"
income = true

[tax_rules.donation]
basis = "gifts"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "home.jsonl", cfg.LedgerFile)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 4, cfg.CacheSize)
	assert.Equal(t, "debug", cfg.Logging.Level)

	rules := cfg.Classifier()
	route, ok := rules.Classify("salary")
	require.True(t, ok)
	assert.Equal(t, tally.TaxRoute{Basis: "wages", Income: true}, route)
	route, ok = rules.Classify("donation")
	require.True(t, ok)
	assert.False(t, route.Income)
	_, ok = rules.Classify("food")
	assert.False(t, ok)
}

func TestLoadConfigLaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	require.NoError(t, os.WriteFile(first, []byte(`ledger_file = "a.jsonl"
currency = "USD"`), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`ledger_file = "b.jsonl"`), 0o644))

	cfg, err := LoadConfig(first, second)
	require.NoError(t, err)
	assert.Equal(t, "b.jsonl", cfg.LedgerFile)
	assert.Equal(t, "USD", cfg.Currency)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TALLY_LEDGER_FILE", "env.jsonl")
	t.Setenv("TALLY_CURRENCY", "gbp")
	t.Setenv("TALLY_LOG_LEVEL", "trace")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "env.jsonl", cfg.LedgerFile)
	assert.Equal(t, "GBP", cfg.Currency)
	assert.Equal(t, "trace", cfg.Logging.Level)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte(`currency = `), 0o644))
	_, err := LoadConfig(invalid)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte(`currency = "ZZZ"`), 0o644))
	_, err = LoadConfig(unknown)
	assert.ErrorContains(t, err, "invalid reporting currency")
}
