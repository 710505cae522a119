// Package transfer implements the portable export and import format.
//
// An export is a single JSON document carrying every transaction, the
// settings, and a metadata block. Import also accepts a bare array of
// transactions for hand-built files. Import is all-or-nothing: one bad
// record rejects the whole document, and the existing data set is left
// untouched.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rocel/internal/core"
)

const (
	appName       = "rocel"
	formatVersion = "1.0"

	// maxReportedErrors caps how many per-record problems an import
	// error spells out before summarizing the rest.
	maxReportedErrors = 5
)

// Meta identifies an export document.
type Meta struct {
	App         string `json:"app"`
	Version     string `json:"version"`
	ExportedAt  string `json:"exportedAt"`
	RecordCount int    `json:"recordCount"`
}

// Document is the full export payload.
type Document struct {
	Meta         Meta               `json:"_meta"`
	Transactions []core.Transaction `json:"transactions"`
	Settings     core.Settings      `json:"settings"`
}

// Export encodes the data set as an indented JSON document.
func Export(txns []core.Transaction, settings core.Settings) ([]byte, error) {
	if txns == nil {
		txns = []core.Transaction{}
	}
	doc := Document{
		Meta: Meta{
			App:         appName,
			Version:     formatVersion,
			ExportedAt:  time.Now().UTC().Format(time.RFC3339),
			RecordCount: len(txns),
		},
		Transactions: txns,
		Settings:     settings,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// ExportFilename returns the suggested download name for an export
// taken today.
func ExportFilename() string {
	return fmt.Sprintf("%s-export-%s.json", appName, time.Now().Format("2006-01-02"))
}

// rawTransaction holds one incoming record with the fields that need
// checking still undecoded.
type rawTransaction struct {
	ID          json.RawMessage `json:"id"`
	Description json.RawMessage `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// Import decodes an export document or a bare transaction array. The
// returned settings are nil when the document carried none. On failure
// the error lists the first few bad records.
func Import(data []byte) ([]core.Transaction, *core.Settings, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil, errors.New("import file is empty")
	}

	var rawTxns []json.RawMessage
	var settings *core.Settings

	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &rawTxns); err != nil {
			return nil, nil, fmt.Errorf("invalid import file: %w", err)
		}
	} else {
		var doc struct {
			Transactions []json.RawMessage `json:"transactions"`
			Settings     json.RawMessage   `json:"settings"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("invalid import file: %w", err)
		}
		if doc.Transactions == nil {
			return nil, nil, errors.New("import file has no transactions")
		}
		rawTxns = doc.Transactions
		if len(doc.Settings) > 0 && string(doc.Settings) != "null" {
			s := core.DecodeSettings(doc.Settings)
			settings = &s
		}
	}

	txns := make([]core.Transaction, 0, len(rawTxns))
	var problems []string
	for i, raw := range rawTxns {
		tx, err := decodeRecord(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Record %d: %v", i+1, err))
			continue
		}
		txns = append(txns, tx)
	}

	if len(problems) > 0 {
		return nil, nil, errors.New(summarizeProblems(problems))
	}
	return txns, settings, nil
}

// decodeRecord checks and decodes one incoming transaction. Identity and
// type are strict; timestamps are backfilled when missing so old exports
// stay importable.
func decodeRecord(raw json.RawMessage) (core.Transaction, error) {
	var rec rawTransaction
	if err := json.Unmarshal(raw, &rec); err != nil {
		return core.Transaction{}, errors.New("not a transaction object")
	}

	id, ok := decodeString(rec.ID)
	if !ok || id == "" {
		return core.Transaction{}, errors.New("missing or invalid id")
	}

	desc, ok := decodeString(rec.Description)
	if !ok || desc == "" {
		return core.Transaction{}, errors.New("missing or invalid description")
	}

	amount, err := decodeAmount(rec.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	txType := core.TransactionType(rec.Type)
	if !txType.IsValid() {
		return core.Transaction{}, fmt.Errorf("invalid type %q", rec.Type)
	}

	now := core.NowISO()
	createdAt := rec.CreatedAt
	if createdAt == "" {
		createdAt = now
	}
	updatedAt := rec.UpdatedAt
	if updatedAt == "" {
		updatedAt = now
	}

	return core.Transaction{
		ID:          id,
		Description: desc,
		Amount:      amount,
		Category:    rec.Category,
		Date:        rec.Date,
		Type:        txType,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeAmount accepts a JSON number or a numeric string, either way
// requiring a non-negative value.
func decodeAmount(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, errors.New("missing amount")
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num < 0 {
			return 0, errors.New("negative amount")
		}
		return num, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		num, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
		if num < 0 {
			return 0, errors.New("negative amount")
		}
		return num, nil
	}

	return 0, errors.New("invalid amount")
}

func summarizeProblems(problems []string) string {
	if len(problems) <= maxReportedErrors {
		return strings.Join(problems, "; ")
	}
	shown := strings.Join(problems[:maxReportedErrors], "; ")
	return fmt.Sprintf("%s; ...and %d more", shown, len(problems)-maxReportedErrors)
}
