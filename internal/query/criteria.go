// Package query filters, sorts and aggregates the transaction set.
package query

import "rocel/internal/core"

// SortKey selects the field a listing is ordered by.
type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByAmount      SortKey = "amount"
	SortByDescription SortKey = "desc"
)

// SortDir selects ascending or descending order.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// FilterAll matches every type or category.
const FilterAll = "all"

// Criteria describes one listing request. The zero value is not useful;
// start from DefaultCriteria or normalize with Normalize.
type Criteria struct {
	SortKey        SortKey
	SortDir        SortDir
	Search         string
	CaseSensitive  bool
	FilterType     string
	FilterCategory string
}

// DefaultCriteria is the newest-first unfiltered listing.
func DefaultCriteria() Criteria {
	return Criteria{
		SortKey:        SortByDate,
		SortDir:        SortDesc,
		FilterType:     FilterAll,
		FilterCategory: FilterAll,
	}
}

// Normalize maps unrecognized values onto the defaults so a stale or
// hand-edited request still produces a sensible listing.
func (c Criteria) Normalize() Criteria {
	switch c.SortKey {
	case SortByDate, SortByAmount, SortByDescription:
	default:
		c.SortKey = SortByDate
	}
	switch c.SortDir {
	case SortAsc, SortDesc:
	default:
		c.SortDir = SortDesc
	}
	if c.FilterType != string(core.TypeIncome) && c.FilterType != string(core.TypeExpense) {
		c.FilterType = FilterAll
	}
	if c.FilterCategory == "" {
		c.FilterCategory = FilterAll
	}
	return c
}
