// Package cmd implements the tly command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tally"
	"github.com/google/subcommands"
)

// Commands are the subcommands of tly.
var Commands = []subcommands.Command{
	&asOfCmd{},
	&rangeCmd{},
	&eventsCmd{},
	&totalsCmd{},
	&fmtCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	for _, cmd := range Commands {
		group := "reports"
		switch cmd.Name() {
		case "fmt":
			group = "ledger"
		case "topic":
			group = "help"
		}
		c.Register(cmd, group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "tally.toml", "Path to the configuration file (TOML)")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format), overrides the configuration")
var currency = flag.String("currency", "", "Reporting currency, overrides the configuration")
var logLevel = flag.String("v", "", "Log level (trace, debug, info, warn, error), overrides the configuration")

// loadConfig loads the configuration file, applies the environment and
// the global flags, and installs the logger.
func loadConfig() (*Config, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	if *currency != "" {
		cfg.Currency = *currency
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	tally.SetLogger(tally.NewLogger(cfg.Logging.Level, os.Stderr))
	return cfg, nil
}

// DecodeLedger loads the configured ledger.
func DecodeLedger() (*Config, *tally.Ledger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	ledger, err := tally.LoadLedger(cfg.LedgerFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ledger, nil
}

// OpenBook loads the configured ledger and replays it.
func OpenBook() (*tally.Book, *tally.Ledger, error) {
	cfg, ledger, err := DecodeLedger()
	if err != nil {
		return nil, nil, err
	}
	if err := ledger.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid ledger %q: %w", ledger.Name(), err)
	}
	book, err := tally.Build(ledger.Sources(), ledger, tally.Options{
		Currency:   cfg.Currency,
		Classifier: cfg.Classifier(),
		CacheSize:  cfg.CacheSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return book, ledger, nil
}

// fail prints err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}
