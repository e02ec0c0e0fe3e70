package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tally"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the configuration of the tly command.
type Config struct {
	LedgerFile string                `toml:"ledger_file"`
	Currency   string                `toml:"currency"` // reporting currency
	CacheSize  int                   `toml:"cache_size"`
	Logging    LoggingConfig         `toml:"logging"`
	TaxRules   map[string]TaxRuleCfg `toml:"tax_rules"` // by transaction category
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// TaxRuleCfg routes a transaction category to a tax basis.
type TaxRuleCfg struct {
	Basis  string `toml:"basis"`
	Income bool   `toml:"income"`
}

// NewDefaultConfig returns a Config with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		LedgerFile: "ledger.jsonl",
		Currency:   "EUR",
		CacheSize:  tally.DefaultCacheSize,
		Logging:    LoggingConfig{Level: "warn"},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones, missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(config)

	if err := tally.ValidateCurrency(config.Currency); err != nil {
		return nil, fmt.Errorf("invalid reporting currency: %w", err)
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if f := os.Getenv("TALLY_LEDGER_FILE"); f != "" {
		config.LedgerFile = f
	}
	if c := os.Getenv("TALLY_CURRENCY"); c != "" {
		config.Currency = strings.ToUpper(c)
	}
	if level := os.Getenv("TALLY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Classifier returns the tax rules of the configuration.
func (c *Config) Classifier() tally.TaxRules {
	rules := make(tally.TaxRules, len(c.TaxRules))
	for category, r := range c.TaxRules {
		rules[category] = tally.TaxRoute{Basis: r.Basis, Income: r.Income}
	}
	return rules
}
