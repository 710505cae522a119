package backend

import (
	"fmt"

	"rocel/internal/log"
	"rocel/internal/storage"
)

// Factory constructs persisters from configuration.
type Factory struct {
	logger *log.Logger
}

// NewFactory creates a backend factory.
func NewFactory(logger *log.Logger) *Factory {
	return &Factory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// Create builds the persister the config asks for.
func (f *Factory) Create(cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case FileBackend:
		return f.createFile(cfg)
	case SQLiteBackend:
		return f.createSQLite(cfg)
	case MemoryBackend:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) createFile(cfg Config) (*Result, error) {
	persister, err := storage.NewFile(cfg.DataDir, f.logger)
	if err != nil {
		return nil, fmt.Errorf("initialize file storage: %w", err)
	}

	f.logger.Info("File backend ready", log.FieldBackend, FileBackend.String(), "dir", cfg.DataDir)
	return &Result{
		Persister: persister,
		Cleanup:   func() error { return nil },
	}, nil
}

func (f *Factory) createSQLite(cfg Config) (*Result, error) {
	persister, err := storage.NewSQLite(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite storage: %w", err)
	}

	f.logger.Info("SQLite backend ready", log.FieldBackend, SQLiteBackend.String(), "path", cfg.SQLiteDBPath)
	return &Result{
		Persister: persister,
		Cleanup:   persister.Close,
	}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	f.logger.Warn("Memory backend ready, data will not survive a restart", log.FieldBackend, MemoryBackend.String())
	return &Result{
		Persister: storage.NewMemory(),
		Cleanup:   func() error { return nil },
	}, nil
}
