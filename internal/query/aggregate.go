package query

import (
	"fmt"
	"time"

	"rocel/internal/core"
)

// Totals are income, expenses and their difference over a set.
type Totals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// DayTotal is one day of the trailing week.
type DayTotal struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// MonthPoint is one month of the current calendar year.
type MonthPoint struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// BudgetStatus describes spending against the configured monthly cap.
type BudgetStatus struct {
	Set         bool    `json:"set"`
	Cap         float64 `json:"cap"`
	PercentUsed float64 `json:"percentUsed"`
	Over        bool    `json:"over"`
	Message     string  `json:"message"`
}

// Summary is everything the dashboard shows at once.
type Summary struct {
	Totals            Totals       `json:"totals"`
	MonthTotals       Totals       `json:"monthTotals"`
	Last7DaysTotals   []DayTotal   `json:"last7DaysTotals"`
	Last7DaysBalances []float64    `json:"last7DaysBalances"`
	Last7DaysSpend    float64      `json:"last7DaysSpend"`
	TopCategory       string       `json:"topCategory"`
	AvgTransaction    float64      `json:"avgTransaction"`
	MonthlyData       []MonthPoint `json:"monthlyData"`
	Categories        []string     `json:"categories"`
	Budget            BudgetStatus `json:"budget"`
}

// Summarize computes the full dashboard summary for the given data set.
func (e *Engine) Summarize(txns []core.Transaction, settings core.Settings) Summary {
	monthTotals := e.MonthTotals(txns)
	return Summary{
		Totals:            ComputeTotals(txns),
		MonthTotals:       monthTotals,
		Last7DaysTotals:   e.Last7DaysTotals(txns),
		Last7DaysBalances: e.Last7DaysBalances(txns),
		Last7DaysSpend:    e.Last7DaysSpend(txns),
		TopCategory:       TopCategory(txns),
		AvgTransaction:    AvgTransaction(txns),
		MonthlyData:       e.MonthlyData(txns),
		Categories:        CategoriesInUse(txns),
		Budget:            ComputeBudgetStatus(settings, monthTotals.Expenses),
	}
}

// ComputeTotals sums income and expenses over every transaction.
func ComputeTotals(txns []core.Transaction) Totals {
	var t Totals
	for _, tx := range txns {
		switch tx.Type {
		case core.TypeIncome:
			t.Income += tx.Amount
		case core.TypeExpense:
			t.Expenses += tx.Amount
		}
	}
	t.Balance = t.Income - t.Expenses
	return t
}

// MonthTotals sums income and expenses for the current calendar month.
func (e *Engine) MonthTotals(txns []core.Transaction) Totals {
	prefix := e.now().Format("2006-01")
	var t Totals
	for _, tx := range txns {
		if len(tx.Date) < 7 || tx.Date[:7] != prefix {
			continue
		}
		switch tx.Type {
		case core.TypeIncome:
			t.Income += tx.Amount
		case core.TypeExpense:
			t.Expenses += tx.Amount
		}
	}
	t.Balance = t.Income - t.Expenses
	return t
}

// Last7DaysTotals returns per-day income and expense totals for the
// trailing seven days, oldest first, today last.
func (e *Engine) Last7DaysTotals(txns []core.Transaction) []DayTotal {
	days := e.trailingDays()
	totals := make([]DayTotal, len(days))
	for i, day := range days {
		totals[i] = DayTotal{
			Date:  day.Format("2006-01-02"),
			Label: day.Format("Jan 2"),
		}
	}

	byDate := make(map[string]int, len(totals))
	for i, dt := range totals {
		byDate[dt.Date] = i
	}
	for _, tx := range txns {
		i, ok := byDate[tx.Date]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.TypeIncome:
			totals[i].Income += tx.Amount
		case core.TypeExpense:
			totals[i].Expense += tx.Amount
		}
	}
	return totals
}

// Last7DaysBalances returns the running balance at the end of each of
// the trailing seven days: all income minus all expenses dated at or
// before that day.
func (e *Engine) Last7DaysBalances(txns []core.Transaction) []float64 {
	days := e.trailingDays()
	balances := make([]float64, len(days))
	for i, day := range days {
		cutoff := day.Format("2006-01-02")
		var balance float64
		for _, tx := range txns {
			if tx.Date > cutoff {
				continue
			}
			switch tx.Type {
			case core.TypeIncome:
				balance += tx.Amount
			case core.TypeExpense:
				balance -= tx.Amount
			}
		}
		balances[i] = balance
	}
	return balances
}

// Last7DaysSpend sums expenses over the trailing seven days.
func (e *Engine) Last7DaysSpend(txns []core.Transaction) float64 {
	days := e.trailingDays()
	from := days[0].Format("2006-01-02")
	to := days[len(days)-1].Format("2006-01-02")

	var spend float64
	for _, tx := range txns {
		if tx.Type == core.TypeExpense && tx.Date >= from && tx.Date <= to {
			spend += tx.Amount
		}
	}
	return spend
}

// TopCategory returns the category appearing on the most transactions,
// or "" for an empty set. On a tie the category that reached the count
// first keeps the spot.
func TopCategory(txns []core.Transaction) string {
	counts := make(map[string]int)
	var best string
	bestCount := 0
	for _, tx := range txns {
		counts[tx.Category]++
		if counts[tx.Category] > bestCount {
			best = tx.Category
			bestCount = counts[tx.Category]
		}
	}
	return best
}

// AvgTransaction is the mean amount over every transaction, 0 for none.
func AvgTransaction(txns []core.Transaction) float64 {
	if len(txns) == 0 {
		return 0
	}
	var sum float64
	for _, tx := range txns {
		sum += tx.Amount
	}
	return sum / float64(len(txns))
}

// MonthlyData returns per-month income and expense totals for all twelve
// months of the current year.
func (e *Engine) MonthlyData(txns []core.Transaction) []MonthPoint {
	year := e.now().Format("2006")
	points := make([]MonthPoint, 12)
	for i := range points {
		points[i].Month = time.Month(i + 1).String()[:3]
	}

	for _, tx := range txns {
		if len(tx.Date) < 7 || tx.Date[:4] != year {
			continue
		}
		month := int(tx.Date[5]-'0')*10 + int(tx.Date[6]-'0')
		if month < 1 || month > 12 {
			continue
		}
		switch tx.Type {
		case core.TypeIncome:
			points[month-1].Income += tx.Amount
		case core.TypeExpense:
			points[month-1].Expenses += tx.Amount
		}
	}
	return points
}

// CategoriesInUse returns distinct categories in first-appearance order.
func CategoriesInUse(txns []core.Transaction) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, tx := range txns {
		if tx.Category == "" || seen[tx.Category] {
			continue
		}
		seen[tx.Category] = true
		categories = append(categories, tx.Category)
	}
	return categories
}

// ComputeBudgetStatus compares monthly expenses against the configured
// cap. The used percentage is capped at 100 for display.
func ComputeBudgetStatus(settings core.Settings, monthExpenses float64) BudgetStatus {
	if settings.BudgetCap == nil || *settings.BudgetCap <= 0 {
		return BudgetStatus{Message: "No budget cap set"}
	}

	limit := *settings.BudgetCap
	pct := monthExpenses / limit * 100
	if pct > 100 {
		pct = 100
	}

	status := BudgetStatus{
		Set:         true,
		Cap:         limit,
		PercentUsed: pct,
	}
	if monthExpenses > limit {
		status.Over = true
		status.Message = fmt.Sprintf("Over budget by %s", core.FormatAmount(monthExpenses-limit, settings))
	} else {
		status.Message = fmt.Sprintf("%s remaining", core.FormatAmount(limit-monthExpenses, settings))
	}
	return status
}

// trailingDays returns the last seven calendar days, oldest first.
func (e *Engine) trailingDays() []time.Time {
	today := e.now()
	days := make([]time.Time, 7)
	for i := 0; i < 7; i++ {
		days[i] = today.AddDate(0, 0, i-6)
	}
	return days
}
