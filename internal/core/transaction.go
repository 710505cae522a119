// Package core holds the domain types shared by every other package:
// transactions, settings and the currency display rules.
package core

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

type (
	// TransactionType is either "income" or "expense".
	TransactionType string

	// Transaction is a single dated income or expense record. Records are
	// immutable-by-replacement: edits swap field values wholesale, only ID
	// and CreatedAt survive a mutation.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Category    string          `json:"category"`
		Date        string          `json:"date"` // ISO YYYY-MM-DD
		Type        TransactionType `json:"type"`
		CreatedAt   string          `json:"createdAt"`
		UpdatedAt   string          `json:"updatedAt"`
	}
)

var ErrNotFound = errors.New("transaction not found")

// IsValid reports whether the type is one of the two known values.
func (t TransactionType) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// NewID returns a fresh opaque transaction identifier. IDs are never reused.
func NewID() string {
	return uuid.NewString()
}

// NowISO returns the current UTC instant formatted the way the persisted
// documents expect timestamps (ISO 8601 with millisecond precision).
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// AmountString renders the amount the way it participates in text search:
// the shortest decimal form, no padding ("3.5", not "3.50").
func (t Transaction) AmountString() string {
	return strconv.FormatFloat(t.Amount, 'f', -1, 64)
}
