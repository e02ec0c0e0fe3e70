package tally

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadLedger opens and decodes the ledger file at path. The ledger is named
// after the file, without its extension.
func LoadLedger(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	ledger.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ledger, nil
}

// SaveLedger writes the ledger to path in its canonical form.
func SaveLedger(path string, ledger *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", path, err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", path, err)
	}
	defer file.Close()

	if err := EncodeLedger(file, ledger); err != nil {
		return fmt.Errorf("could not encode ledger %q: %w", path, err)
	}
	return nil
}
