package transfer

import (
	"encoding/json"
	"strings"
	"testing"

	"rocel/internal/core"
)

func TestExportCarriesMeta(t *testing.T) {
	txns := []core.Transaction{
		{ID: "t1", Description: "Coffee", Amount: 3.5, Type: core.TypeExpense, Date: "2026-08-15"},
		{ID: "t2", Description: "Salary", Amount: 1000, Type: core.TypeIncome, Date: "2026-08-01"},
	}
	data, err := Export(txns, core.DefaultSettings())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.Meta.App != "rocel" || doc.Meta.Version != "1.0" {
		t.Errorf("meta = %+v", doc.Meta)
	}
	if doc.Meta.RecordCount != 2 || len(doc.Transactions) != 2 {
		t.Errorf("record count = %d, transactions = %d", doc.Meta.RecordCount, len(doc.Transactions))
	}
	if doc.Meta.ExportedAt == "" {
		t.Error("exportedAt should be set")
	}
}

func TestExportEmptySet(t *testing.T) {
	data, err := Export(nil, core.DefaultSettings())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(string(data), `"transactions": []`) {
		t.Error("empty set should export an empty array, not null")
	}
}

func TestImportRoundTrip(t *testing.T) {
	orig := []core.Transaction{
		{ID: "t1", Description: "Coffee", Amount: 3.5, Category: "Food", Date: "2026-08-15", Type: core.TypeExpense, CreatedAt: "2026-08-15T10:00:00.000Z", UpdatedAt: "2026-08-15T10:00:00.000Z"},
	}
	settings := core.DefaultSettings()
	settings.UserName = "Ada"

	data, err := Export(orig, settings)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	txns, gotSettings, err := Import(data)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(txns) != 1 || txns[0] != orig[0] {
		t.Errorf("round trip mismatch: %+v", txns)
	}
	if gotSettings == nil || gotSettings.UserName != "Ada" {
		t.Errorf("settings lost in round trip: %+v", gotSettings)
	}
}

func TestImportBareArray(t *testing.T) {
	data := `[{"id":"1","description":"Lunch","amount":12,"type":"expense"}]`
	txns, settings, err := Import([]byte(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(txns) != 1 || txns[0].Description != "Lunch" {
		t.Errorf("imported = %+v", txns)
	}
	if settings != nil {
		t.Error("bare array should carry no settings")
	}
}

func TestImportStringAmountAndBackfill(t *testing.T) {
	data := `{"transactions":[{"id":"1","description":"Coffee","amount":"3.50","type":"expense"}]}`
	txns, _, err := Import([]byte(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if txns[0].Amount != 3.5 {
		t.Errorf("string amount = %v", txns[0].Amount)
	}
	if txns[0].CreatedAt == "" || txns[0].UpdatedAt == "" {
		t.Error("missing timestamps should be backfilled")
	}
}

func TestImportRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "missing id",
			data: `[{"description":"x","amount":1,"type":"expense"}]`,
			want: "Record 1: missing or invalid id",
		},
		{
			name: "numeric id",
			data: `[{"id":7,"description":"x","amount":1,"type":"expense"}]`,
			want: "Record 1: missing or invalid id",
		},
		{
			name: "negative amount",
			data: `[{"id":"1","description":"x","amount":-5,"type":"expense"}]`,
			want: "Record 1: negative amount",
		},
		{
			name: "unknown type",
			data: `[{"id":"1","description":"x","amount":1,"type":"loan"}]`,
			want: `Record 1: invalid type "loan"`,
		},
		{
			name: "not an object",
			data: `["just a string"]`,
			want: "Record 1: not a transaction object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Import([]byte(tt.data))
			if err == nil {
				t.Fatal("expected import to fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestImportOneBadRecordRejectsAll(t *testing.T) {
	data := `[
		{"id":"1","description":"Good","amount":1,"type":"expense"},
		{"id":"2","description":"","amount":1,"type":"expense"}
	]`
	txns, _, err := Import([]byte(data))
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if txns != nil {
		t.Error("failed import must not return partial data")
	}
	if !strings.Contains(err.Error(), "Record 2") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestImportSummarizesManyErrors(t *testing.T) {
	var records []string
	for i := 0; i < 8; i++ {
		records = append(records, `{"description":"x","amount":1,"type":"expense"}`)
	}
	data := "[" + strings.Join(records, ",") + "]"

	_, _, err := Import([]byte(data))
	if err == nil {
		t.Fatal("expected import to fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "...and 3 more") {
		t.Errorf("error = %q, want a 3-more summary", msg)
	}
	if strings.Contains(msg, "Record 6") {
		t.Errorf("error = %q, should stop detailing after 5 records", msg)
	}
}

func TestImportGarbage(t *testing.T) {
	for _, data := range []string{"", "   ", "{not json", `{"settings":{}}`} {
		if _, _, err := Import([]byte(data)); err == nil {
			t.Errorf("Import(%q) should fail", data)
		}
	}
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename()
	if !strings.HasPrefix(name, "rocel-export-") || !strings.HasSuffix(name, ".json") {
		t.Errorf("filename = %q", name)
	}
}
