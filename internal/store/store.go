// Package store holds the in-memory working set of transactions and
// settings and keeps a persister in sync with every mutation.
//
// The store is the single writer: handlers mutate through it, the
// persister only ever sees whole snapshots, and persistence failures
// degrade to log warnings so the working set stays usable offline.
package store

import (
	"context"
	"sync"

	"rocel/internal/core"
	"rocel/internal/log"
)

// Persister saves and loads whole snapshots of the data set. Writes
// always carry the complete state, never deltas.
type Persister interface {
	SaveTransactions(ctx context.Context, txns []core.Transaction) error
	SaveSettings(ctx context.Context, settings core.Settings) error
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	LoadSettings(ctx context.Context) (core.Settings, error)
}

// Notifier receives change events after a mutation has been applied and
// persisted. Delivery is best effort: a failing notifier is logged and
// never rolls back the mutation.
type Notifier interface {
	TransactionChanged(ctx context.Context, op string, tx core.Transaction) error
}

// Snapshot is a point-in-time copy of the full data set.
type Snapshot struct {
	Transactions []core.Transaction
	Settings     core.Settings
}

// TransactionPatch carries the editable fields of a transaction. Update
// replaces all of them; identity and creation time are preserved.
type TransactionPatch struct {
	Description string
	Amount      float64
	Category    string
	Date        string
	Type        core.TransactionType
}

// Store is the mutable transaction and settings set.
type Store struct {
	mu        sync.Mutex
	logger    *log.Logger
	persister Persister
	notifier  Notifier

	txns     []core.Transaction
	settings core.Settings
}

// New creates an empty store backed by the given persister.
func New(persister Persister, logger *log.Logger) *Store {
	return &Store{
		logger:    logger.WithComponent(log.ComponentStore),
		persister: persister,
		settings:  core.DefaultSettings(),
	}
}

// SetNotifier installs a change notifier. Pass nil to disable.
func (s *Store) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Load populates the store from the persister. Unreadable state degrades
// to an empty set and default settings rather than failing startup.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.persister.LoadTransactions(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load transactions, starting empty", log.FieldError, err.Error())
		txns = nil
	}
	s.txns = txns

	settings, err := s.persister.LoadSettings(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load settings, using defaults", log.FieldError, err.Error())
		settings = core.DefaultSettings()
	}
	s.settings = settings

	s.logger.InfoContext(ctx, "Store loaded", log.FieldCount, len(s.txns))
}

// Add appends a transaction and persists the new set.
func (s *Store) Add(ctx context.Context, tx core.Transaction) {
	s.mu.Lock()
	s.txns = append(s.txns, tx)
	s.persistTransactions(ctx)
	s.mu.Unlock()

	s.notify(ctx, "created", tx)
}

// Update replaces the editable fields of the transaction with the given
// id and refreshes its update timestamp. It reports whether the id was
// found.
func (s *Store) Update(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, bool) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return core.Transaction{}, false
	}

	tx := s.txns[idx]
	tx.Description = patch.Description
	tx.Amount = patch.Amount
	tx.Category = patch.Category
	tx.Date = patch.Date
	tx.Type = patch.Type
	tx.UpdatedAt = core.NowISO()
	s.txns[idx] = tx
	s.persistTransactions(ctx)
	s.mu.Unlock()

	s.notify(ctx, "updated", tx)
	return tx, true
}

// Delete removes the transaction with the given id. Deleting an unknown
// id is a no-op and reports false.
func (s *Store) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	tx := s.txns[idx]
	s.txns = append(s.txns[:idx], s.txns[idx+1:]...)
	s.persistTransactions(ctx)
	s.mu.Unlock()

	s.notify(ctx, "deleted", tx)
	return true
}

// GetByID returns the transaction with the given id.
func (s *Store) GetByID(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Transaction{}, false
	}
	return s.txns[idx], true
}

// ReplaceAll swaps in a whole new transaction set, as an import does.
func (s *Store) ReplaceAll(ctx context.Context, txns []core.Transaction) {
	s.mu.Lock()
	s.txns = append([]core.Transaction(nil), txns...)
	s.persistTransactions(ctx)
	count := len(s.txns)
	s.mu.Unlock()

	s.notify(ctx, "replaced", core.Transaction{})
	s.logger.InfoContext(ctx, "Transaction set replaced", log.FieldCount, count)
}

// ListAll returns a copy of every transaction in insertion order.
func (s *Store) ListAll() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txns...)
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// UpdateSettings applies a partial settings update and persists the
// result. Fields absent from the patch are untouched.
func (s *Store) UpdateSettings(ctx context.Context, patch core.SettingsPatch) core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = s.settings.Apply(patch)
	if err := s.persister.SaveSettings(ctx, s.settings); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist settings", log.FieldError, err.Error())
	}
	return s.settings.Clone()
}

// ReplaceSettings swaps in fully formed settings, as an import does.
func (s *Store) ReplaceSettings(ctx context.Context, settings core.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	if err := s.persister.SaveSettings(ctx, s.settings); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist settings", log.FieldError, err.Error())
	}
}

// Snapshot returns a consistent copy of transactions and settings.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Transactions: append([]core.Transaction(nil), s.txns...),
		Settings:     s.settings.Clone(),
	}
}

// indexOf returns the position of id in txns, or -1. Callers hold mu.
func (s *Store) indexOf(id string) int {
	for i := range s.txns {
		if s.txns[i].ID == id {
			return i
		}
	}
	return -1
}

// persistTransactions writes the current set. Callers hold mu. A write
// failure keeps the in-memory state authoritative.
func (s *Store) persistTransactions(ctx context.Context) {
	if err := s.persister.SaveTransactions(ctx, s.txns); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist transactions", log.FieldError, err.Error())
	}
}

func (s *Store) notify(ctx context.Context, op string, tx core.Transaction) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()
	if n == nil {
		return
	}
	if err := n.TransactionChanged(ctx, op, tx); err != nil {
		s.logger.WarnContext(ctx, "Change notification failed",
			log.FieldOperation, op,
			log.FieldTransactionID, tx.ID,
			log.FieldError, err.Error())
	}
}
