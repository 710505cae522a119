// Package storage provides the persisters behind the store: flat JSON
// files, an embedded SQLite database and an in-memory variant.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"rocel/internal/core"
	"rocel/internal/log"
)

const (
	transactionsFile = "transactions.json"
	settingsFile     = "settings.json"
)

// File persists the data set as two JSON documents under a directory.
// Writes go through a temp file and rename so a crash never leaves a
// half-written document behind.
type File struct {
	dir    string
	logger *log.Logger
}

// NewFile creates a file persister rooted at dir, creating it if needed.
func NewFile(dir string, logger *log.Logger) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{
		dir:    dir,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (f *File) SaveTransactions(_ context.Context, txns []core.Transaction) error {
	if txns == nil {
		txns = []core.Transaction{}
	}
	data, err := json.MarshalIndent(txns, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	return f.writeAtomic(transactionsFile, data)
}

func (f *File) SaveSettings(_ context.Context, settings core.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return f.writeAtomic(settingsFile, data)
}

// LoadTransactions reads the transaction file. A missing or malformed
// file degrades to an empty set with a warning rather than an error, so
// a damaged document never blocks startup.
func (f *File) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, transactionsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	var txns []core.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		f.logger.WarnContext(ctx, "Malformed transactions file, starting empty", log.FieldError, err.Error())
		return nil, nil
	}
	return txns, nil
}

// LoadSettings reads the settings file through DecodeSettings, which
// fills defaults and migrates legacy field names.
func (f *File) LoadSettings(_ context.Context) (core.Settings, error) {
	data, err := os.ReadFile(filepath.Join(f.dir, settingsFile))
	if os.IsNotExist(err) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.DefaultSettings(), fmt.Errorf("read settings: %w", err)
	}
	return core.DecodeSettings(data), nil
}

func (f *File) writeAtomic(name string, data []byte) error {
	target := filepath.Join(f.dir, name)
	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
