package query

import (
	"sort"
	"strings"
	"time"

	"rocel/internal/core"
	"rocel/internal/search"
)

// Row is one listed transaction with its description and category split
// into highlight spans for the active search pattern.
type Row struct {
	core.Transaction
	DescriptionSpans []search.Span `json:"descriptionSpans"`
	CategorySpans    []search.Span `json:"categorySpans"`
}

// Result is a filtered, sorted listing. SearchValid is false when the
// search expression did not compile; the listing then ignores it.
type Result struct {
	Rows        []Row `json:"rows"`
	SearchValid bool  `json:"searchValid"`
}

// Engine runs listings and aggregations. The clock is injectable so
// date-relative aggregates are testable.
type Engine struct {
	now func() time.Time
}

// New creates an engine on the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock creates an engine with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Run applies the criteria to the transactions and returns the listing.
// Filters apply in order: type, category, then the search pattern over
// the whole record text. Sorting is stable so equal keys keep their
// relative insertion order.
func (e *Engine) Run(txns []core.Transaction, c Criteria) Result {
	c = c.Normalize()

	pattern := search.Compile(c.Search, c.CaseSensitive)
	searchValid := c.Search == "" || pattern != nil

	filtered := make([]core.Transaction, 0, len(txns))
	for _, tx := range txns {
		if c.FilterType != FilterAll && string(tx.Type) != c.FilterType {
			continue
		}
		if c.FilterCategory != FilterAll && tx.Category != c.FilterCategory {
			continue
		}
		if pattern != nil && !pattern.Match(recordText(tx)) {
			continue
		}
		filtered = append(filtered, tx)
	}

	sortTransactions(filtered, c.SortKey, c.SortDir)

	rows := make([]Row, len(filtered))
	for i, tx := range filtered {
		rows[i] = Row{
			Transaction:      tx,
			DescriptionSpans: pattern.Highlight(tx.Description),
			CategorySpans:    pattern.Highlight(tx.Category),
		}
	}
	return Result{Rows: rows, SearchValid: searchValid}
}

// recordText is the text the search pattern runs against: description,
// category, date and amount joined by single spaces.
func recordText(tx core.Transaction) string {
	return strings.Join([]string{tx.Description, tx.Category, tx.Date, tx.AmountString()}, " ")
}

func sortTransactions(txns []core.Transaction, key SortKey, dir SortDir) {
	var less func(a, b core.Transaction) bool
	switch key {
	case SortByAmount:
		less = func(a, b core.Transaction) bool { return a.Amount < b.Amount }
	case SortByDescription:
		less = func(a, b core.Transaction) bool {
			return strings.ToLower(a.Description) < strings.ToLower(b.Description)
		}
	default:
		// ISO dates order lexicographically.
		less = func(a, b core.Transaction) bool { return a.Date < b.Date }
	}

	sort.SliceStable(txns, func(i, j int) bool {
		if dir == SortDesc {
			return less(txns[j], txns[i])
		}
		return less(txns[i], txns[j])
	})
}
