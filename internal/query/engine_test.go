package query

import (
	"testing"

	"rocel/internal/core"
)

func fixtureTxns() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Description: "Salary", Amount: 5000, Category: "Work", Date: "2026-08-01", Type: core.TypeIncome},
		{ID: "2", Description: "Groceries", Amount: 120.5, Category: "Food", Date: "2026-08-03", Type: core.TypeExpense},
		{ID: "3", Description: "coffee beans", Amount: 18, Category: "Food", Date: "2026-08-05", Type: core.TypeExpense},
		{ID: "4", Description: "Book sale", Amount: 35, Category: "Books", Date: "2026-08-05", Type: core.TypeIncome},
	}
}

func rowIDs(r Result) []string {
	ids := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		ids[i] = row.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunUnfilteredReturnsEverything(t *testing.T) {
	e := New()
	result := e.Run(fixtureTxns(), DefaultCriteria())
	if len(result.Rows) != 4 {
		t.Fatalf("unfiltered run should list all 4 transactions, got %d", len(result.Rows))
	}
	if !result.SearchValid {
		t.Error("empty search should be valid")
	}
}

func TestRunTypeAndCategoryFilters(t *testing.T) {
	e := New()

	c := DefaultCriteria()
	c.FilterType = "expense"
	result := e.Run(fixtureTxns(), c)
	if !equalIDs(rowIDs(result), []string{"3", "2"}) {
		t.Errorf("expense filter (date desc) = %v", rowIDs(result))
	}

	c = DefaultCriteria()
	c.FilterCategory = "Food"
	result = e.Run(fixtureTxns(), c)
	if len(result.Rows) != 2 {
		t.Errorf("category filter should keep 2 rows, got %d", len(result.Rows))
	}

	c.FilterType = "income"
	result = e.Run(fixtureTxns(), c)
	if len(result.Rows) != 0 {
		t.Errorf("income+Food should keep 0 rows, got %d", len(result.Rows))
	}
}

func TestRunSearchMatchesWholeRecord(t *testing.T) {
	e := New()

	// Pattern hits the date field, not just the description.
	c := DefaultCriteria()
	c.Search = `2026-08-01`
	result := e.Run(fixtureTxns(), c)
	if !equalIDs(rowIDs(result), []string{"1"}) {
		t.Errorf("date search = %v", rowIDs(result))
	}

	// Amount text is searchable too.
	c.Search = `120\.5`
	result = e.Run(fixtureTxns(), c)
	if !equalIDs(rowIDs(result), []string{"2"}) {
		t.Errorf("amount search = %v", rowIDs(result))
	}
}

func TestRunSearchCaseSensitivity(t *testing.T) {
	e := New()

	c := DefaultCriteria()
	c.Search = "COFFEE"
	result := e.Run(fixtureTxns(), c)
	if len(result.Rows) != 1 {
		t.Errorf("insensitive search should match, got %d rows", len(result.Rows))
	}

	c.CaseSensitive = true
	result = e.Run(fixtureTxns(), c)
	if len(result.Rows) != 0 {
		t.Errorf("sensitive search should not match, got %d rows", len(result.Rows))
	}
}

func TestRunInvalidPatternPassesThrough(t *testing.T) {
	e := New()
	c := DefaultCriteria()
	c.Search = "["
	result := e.Run(fixtureTxns(), c)
	if len(result.Rows) != 4 {
		t.Errorf("invalid pattern should not filter, got %d rows", len(result.Rows))
	}
	if result.SearchValid {
		t.Error("invalid pattern should clear SearchValid")
	}
}

func TestRunSorting(t *testing.T) {
	e := New()

	c := DefaultCriteria()
	c.SortKey = SortByAmount
	c.SortDir = SortAsc
	asc := e.Run(fixtureTxns(), c)
	if !equalIDs(rowIDs(asc), []string{"3", "4", "2", "1"}) {
		t.Errorf("amount asc = %v", rowIDs(asc))
	}

	c.SortDir = SortDesc
	desc := e.Run(fixtureTxns(), c)
	if !equalIDs(rowIDs(desc), []string{"1", "2", "4", "3"}) {
		t.Errorf("amount desc = %v", rowIDs(desc))
	}

	// Description sorting ignores case.
	c = DefaultCriteria()
	c.SortKey = SortByDescription
	c.SortDir = SortAsc
	byDesc := e.Run(fixtureTxns(), c)
	if !equalIDs(rowIDs(byDesc), []string{"4", "3", "2", "1"}) {
		t.Errorf("description asc = %v", rowIDs(byDesc))
	}
}

func TestRunHighlightSpans(t *testing.T) {
	e := New()
	c := DefaultCriteria()
	c.Search = "coffee"
	result := e.Run(fixtureTxns(), c)
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(result.Rows))
	}

	spans := result.Rows[0].DescriptionSpans
	if len(spans) != 2 || !spans[0].Match || spans[0].Text != "coffee" || spans[1].Text != " beans" {
		t.Errorf("highlight spans = %v", spans)
	}
}

func TestNormalizeFallsBackToDefaults(t *testing.T) {
	c := Criteria{SortKey: "color", SortDir: "sideways", FilterType: "loan"}
	n := c.Normalize()
	if n.SortKey != SortByDate || n.SortDir != SortDesc {
		t.Errorf("normalized sort = %s/%s", n.SortKey, n.SortDir)
	}
	if n.FilterType != FilterAll || n.FilterCategory != FilterAll {
		t.Errorf("normalized filters = %s/%s", n.FilterType, n.FilterCategory)
	}
}
