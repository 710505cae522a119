package query

import (
	"math"
	"testing"
	"time"

	"rocel/internal/core"
)

// fixedEngine runs aggregations as of Saturday 2026-08-15.
func fixedEngine() *Engine {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	return NewWithClock(func() time.Time { return now })
}

func aggFixture() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Description: "Salary", Amount: 3000, Category: "Work", Date: "2026-08-01", Type: core.TypeIncome},
		{ID: "2", Description: "Rent", Amount: 900, Category: "Housing", Date: "2026-08-02", Type: core.TypeExpense},
		{ID: "3", Description: "Groceries", Amount: 150, Category: "Food", Date: "2026-08-12", Type: core.TypeExpense},
		{ID: "4", Description: "Coffee", Amount: 5, Category: "Food", Date: "2026-08-15", Type: core.TypeExpense},
		{ID: "5", Description: "Old bonus", Amount: 400, Category: "Work", Date: "2026-07-20", Type: core.TypeIncome},
		{ID: "6", Description: "Last year", Amount: 99, Category: "Misc", Date: "2025-12-31", Type: core.TypeExpense},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals(aggFixture())
	if !almostEqual(got.Income, 3400) || !almostEqual(got.Expenses, 1154) {
		t.Errorf("totals = %+v", got)
	}
	if !almostEqual(got.Balance, got.Income-got.Expenses) {
		t.Errorf("balance must equal income minus expenses, got %+v", got)
	}
}

func TestMonthTotals(t *testing.T) {
	got := fixedEngine().MonthTotals(aggFixture())
	if !almostEqual(got.Income, 3000) {
		t.Errorf("month income = %v", got.Income)
	}
	if !almostEqual(got.Expenses, 1055) {
		t.Errorf("month expenses = %v", got.Expenses)
	}
}

func TestLast7DaysTotals(t *testing.T) {
	got := fixedEngine().Last7DaysTotals(aggFixture())
	if len(got) != 7 {
		t.Fatalf("expected 7 days, got %d", len(got))
	}
	if got[0].Date != "2026-08-09" || got[6].Date != "2026-08-15" {
		t.Errorf("window = %s .. %s", got[0].Date, got[6].Date)
	}
	if got[0].Label != "Aug 9" {
		t.Errorf("label = %q", got[0].Label)
	}

	// Groceries on the 12th, coffee on the 15th, nothing else in range.
	if !almostEqual(got[3].Expense, 150) {
		t.Errorf("expense on %s = %v", got[3].Date, got[3].Expense)
	}
	if !almostEqual(got[6].Expense, 5) {
		t.Errorf("expense on %s = %v", got[6].Date, got[6].Expense)
	}
	if !almostEqual(got[1].Expense, 0) || !almostEqual(got[1].Income, 0) {
		t.Errorf("quiet day should be zero, got %+v", got[1])
	}
}

func TestLast7DaysBalances(t *testing.T) {
	got := fixedEngine().Last7DaysBalances(aggFixture())
	if len(got) != 7 {
		t.Fatalf("expected 7 balances, got %d", len(got))
	}

	// Through Aug 9: 3000 + 400 - 900 - 99 = 2401. Then -150 on the
	// 12th and -5 on the 15th.
	if !almostEqual(got[0], 2401) {
		t.Errorf("balance[0] = %v", got[0])
	}
	if !almostEqual(got[3], 2251) {
		t.Errorf("balance[3] = %v", got[3])
	}
	if !almostEqual(got[6], 2246) {
		t.Errorf("balance[6] = %v", got[6])
	}
}

func TestLast7DaysSpend(t *testing.T) {
	if got := fixedEngine().Last7DaysSpend(aggFixture()); !almostEqual(got, 155) {
		t.Errorf("Last7DaysSpend = %v", got)
	}
}

func TestTopCategory(t *testing.T) {
	// Food and Work both appear twice; Food reaches two first.
	if got := TopCategory(aggFixture()); got != "Food" {
		t.Errorf("TopCategory = %q", got)
	}
	if got := TopCategory(nil); got != "" {
		t.Errorf("TopCategory of empty set = %q", got)
	}

	// On a tie the category seen first wins.
	tied := []core.Transaction{
		{Category: "Food"},
		{Category: "Travel"},
	}
	if got := TopCategory(tied); got != "Food" {
		t.Errorf("tie break = %q", got)
	}
}

func TestAvgTransaction(t *testing.T) {
	if got := AvgTransaction(nil); got != 0 {
		t.Errorf("average of empty set = %v", got)
	}
	txns := []core.Transaction{{Amount: 10}, {Amount: 20}}
	if got := AvgTransaction(txns); !almostEqual(got, 15) {
		t.Errorf("average = %v", got)
	}
}

func TestMonthlyData(t *testing.T) {
	got := fixedEngine().MonthlyData(aggFixture())
	if len(got) != 12 {
		t.Fatalf("expected 12 months, got %d", len(got))
	}
	if got[0].Month != "Jan" || got[11].Month != "Dec" {
		t.Errorf("month labels = %s .. %s", got[0].Month, got[11].Month)
	}

	// July holds the bonus, August the rest; last year's entry is out.
	if !almostEqual(got[6].Income, 400) {
		t.Errorf("July income = %v", got[6].Income)
	}
	if !almostEqual(got[7].Income, 3000) || !almostEqual(got[7].Expenses, 1055) {
		t.Errorf("August = %+v", got[7])
	}
	if !almostEqual(got[11].Expenses, 0) {
		t.Errorf("December should be empty, got %+v", got[11])
	}
}

func TestCategoriesInUse(t *testing.T) {
	got := CategoriesInUse(aggFixture())
	want := []string{"Work", "Housing", "Food", "Misc"}
	if len(got) != len(want) {
		t.Fatalf("categories = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("categories = %v, want %v", got, want)
			break
		}
	}
}

func TestComputeBudgetStatus(t *testing.T) {
	settings := core.DefaultSettings()
	settings.BaseCurrency = core.CurrencyRWF

	unset := ComputeBudgetStatus(settings, 500)
	if unset.Set || unset.Message != "No budget cap set" {
		t.Errorf("unset cap = %+v", unset)
	}

	limit := 1000.0
	settings.BudgetCap = &limit

	over := ComputeBudgetStatus(settings, 1200)
	if !over.Over || over.PercentUsed != 100 {
		t.Errorf("over budget = %+v", over)
	}
	if over.Message != "Over budget by RWF 200.00" {
		t.Errorf("over message = %q", over.Message)
	}

	under := ComputeBudgetStatus(settings, 400)
	if under.Over || !almostEqual(under.PercentUsed, 40) {
		t.Errorf("under budget = %+v", under)
	}
	if under.Message != "RWF 600.00 remaining" {
		t.Errorf("under message = %q", under.Message)
	}
}

func TestSummarize(t *testing.T) {
	settings := core.DefaultSettings()
	s := fixedEngine().Summarize(aggFixture(), settings)
	if !almostEqual(s.Totals.Balance, 2246) {
		t.Errorf("summary balance = %v", s.Totals.Balance)
	}
	if s.TopCategory != "Food" {
		t.Errorf("summary top category = %q", s.TopCategory)
	}
	if len(s.Last7DaysTotals) != 7 || len(s.MonthlyData) != 12 {
		t.Error("summary window sizes wrong")
	}
}
