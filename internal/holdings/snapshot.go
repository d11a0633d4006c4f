// Package holdings loads and writes portfolio snapshot files.
//
// A snapshot file is YAML:
//
//	monthly_income: 150000
//	monthly_expenses: 70000
//	assets:
//	  - name: Nifty 50 Index Fund
//	    type: MUTUAL_FUND
//	    current_value: 450000
//	    profit_loss: 50000
//	bank_accounts:
//	  - name: Salary
//	    bank: HDFC
//	    balance: 120000
//	deposits:
//	  - name: FD 1
//	    kind: FD
//	    principal: 100000
//	    current_value: 104500
//	    interest_rate: 7.1
//	    maturity_date: 2026-06-30
//
// Unknown keys are rejected so typos do not silently drop holdings.
package holdings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// ErrInvalidFile is returned for snapshot files that decode but describe an impossible portfolio.
var ErrInvalidFile = errors.New("invalid holdings file")

// LoadFile reads and validates a snapshot file.
func LoadFile(path string) (model.Snapshot, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-supplied on purpose
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to open holdings file: %w", err)
	}
	defer func() { _ = f.Close() }()

	snapshot, err := Decode(f)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

// Decode reads one snapshot document from r.
func Decode(r io.Reader) (model.Snapshot, error) {
	var snapshot model.Snapshot

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snapshot); err != nil {
		if errors.Is(err, io.EOF) {
			return snapshot, fmt.Errorf("%w: empty document", ErrInvalidFile)
		}
		return snapshot, fmt.Errorf("failed to decode holdings: %w", err)
	}

	normalize(&snapshot)
	if err := Validate(snapshot); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

// Validate checks the fields a file must provide on top of model.Snapshot.Validate.
func Validate(s model.Snapshot) error {
	for i, a := range s.Assets {
		if a.Name == "" {
			return fmt.Errorf("%w: asset %d has no name", ErrInvalidFile, i)
		}
		if a.Type == "" {
			return fmt.Errorf("%w: asset %q has no type", ErrInvalidFile, a.Name)
		}
	}
	for i, b := range s.BankAccounts {
		if b.Name == "" {
			return fmt.Errorf("%w: bank account %d has no name", ErrInvalidFile, i)
		}
	}
	for i, d := range s.Deposits {
		if d.Name == "" {
			return fmt.Errorf("%w: deposit %d has no name", ErrInvalidFile, i)
		}
		if d.Kind != model.DepositFixed && d.Kind != model.DepositRecurring {
			return fmt.Errorf("%w: deposit %q has kind %q, want FD or RD", ErrInvalidFile, d.Name, d.Kind)
		}
	}
	return s.Validate()
}

// Encode writes the snapshot as YAML.
func Encode(w io.Writer, s model.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode holdings: %w", err)
	}
	return enc.Close()
}

// WriteFile encodes the snapshot to path, replacing any existing file.
func WriteFile(path string, s model.Snapshot) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // path is user-supplied on purpose
	if err != nil {
		return fmt.Errorf("failed to create holdings file: %w", err)
	}
	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func normalize(s *model.Snapshot) {
	for i := range s.Assets {
		a := &s.Assets[i]
		a.Name = strings.TrimSpace(a.Name)
		a.Type = model.AssetType(strings.ToUpper(strings.TrimSpace(string(a.Type))))
	}
	for i := range s.BankAccounts {
		b := &s.BankAccounts[i]
		b.Name = strings.TrimSpace(b.Name)
		b.Bank = model.Bank(strings.ToUpper(strings.TrimSpace(string(b.Bank))))
	}
	for i := range s.Deposits {
		d := &s.Deposits[i]
		d.Name = strings.TrimSpace(d.Name)
		d.Kind = model.DepositKind(strings.ToUpper(strings.TrimSpace(string(d.Kind))))
	}
}
