package storage

import (
	"context"
	"sync"

	"rocel/internal/core"
)

// Memory is an in-process persister. It backs the memory backend and the
// test suites; nothing survives a restart.
type Memory struct {
	mu       sync.Mutex
	txns     []core.Transaction
	settings core.Settings
	hasSet   bool

	txnSaves      int
	settingsSaves int
}

// NewMemory creates an empty in-memory persister.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveTransactions(_ context.Context, txns []core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns = append([]core.Transaction(nil), txns...)
	m.txnSaves++
	return nil
}

func (m *Memory) SaveSettings(_ context.Context, settings core.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings.Clone()
	m.hasSet = true
	m.settingsSaves++
	return nil
}

func (m *Memory) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Transaction(nil), m.txns...), nil
}

func (m *Memory) LoadSettings(_ context.Context) (core.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasSet {
		return core.DefaultSettings(), nil
	}
	return m.settings.Clone(), nil
}

// TransactionSaves reports how many times the transaction set was written.
func (m *Memory) TransactionSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.txnSaves
}

// SettingsSaves reports how many times settings were written.
func (m *Memory) SettingsSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settingsSaves
}
