// Package summary aggregates a user's records into the dashboard report:
// totals for the current month and a per-month series.
package summary

import (
	"sort"
	"time"

	"github.com/fintrack/fintrack/internal/models"
	"github.com/shopspring/decimal"
)

// Length of the monthly series: the default and the largest accepted.
const (
	DefaultMonths = 6
	MaxMonths     = 24
)

// Bucket is one labelled total.
type Bucket struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// CurrentMonth holds the totals of the month containing now.
type CurrentMonth struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	Balance           decimal.Decimal `json:"balance"`
	IncomeBySource    []Bucket        `json:"incomeBySource"`
	ExpenseByCategory []Bucket        `json:"expenseByCategory"`
}

// MonthTotal is one entry of the monthly series.
type MonthTotal struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Report is the full summary.
type Report struct {
	Timezone     string       `json:"timezone"`
	CurrentMonth CurrentMonth `json:"currentMonth"`
	Months       []MonthTotal `json:"months"`
}

type monthKey struct {
	year  int
	month time.Month
}

func keyOf(t time.Time, loc *time.Location) monthKey {
	lt := t.In(loc)
	return monthKey{lt.Year(), lt.Month()}
}

// Build buckets records by calendar month in loc. The series covers the months
// months ending with the one containing now, oldest first; months is clamped to
// [1, MaxMonths].
func Build(incomes []models.Income, expenses []models.Expense, now time.Time, loc *time.Location, months int) Report {
	if loc == nil {
		loc = time.UTC
	}
	if months < 1 {
		months = 1
	}
	if months > MaxMonths {
		months = MaxMonths
	}

	current := keyOf(now, loc)

	series := make([]MonthTotal, months)
	index := make(map[monthKey]int, months)
	first := time.Date(current.year, current.month, 1, 0, 0, 0, 0, loc)
	for i := 0; i < months; i++ {
		m := first.AddDate(0, i-(months-1), 0)
		series[i] = MonthTotal{Year: m.Year(), Month: int(m.Month()), Income: decimal.Zero, Expense: decimal.Zero}
		index[monthKey{m.Year(), m.Month()}] = i
	}

	cm := CurrentMonth{
		Year:         current.year,
		Month:        int(current.month),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	bySource := map[string]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}

	for _, in := range incomes {
		k := keyOf(in.Date, loc)
		if i, ok := index[k]; ok {
			series[i].Income = series[i].Income.Add(in.Amount)
		}
		if k == current {
			cm.TotalIncome = cm.TotalIncome.Add(in.Amount)
			bySource[in.Source] = bySource[in.Source].Add(in.Amount)
		}
	}
	for _, e := range expenses {
		k := keyOf(e.Date, loc)
		if i, ok := index[k]; ok {
			series[i].Expense = series[i].Expense.Add(e.Amount)
		}
		if k == current {
			cm.TotalExpense = cm.TotalExpense.Add(e.Amount)
			byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
		}
	}

	cm.Balance = cm.TotalIncome.Sub(cm.TotalExpense)
	cm.IncomeBySource = sortedBuckets(bySource)
	cm.ExpenseByCategory = sortedBuckets(byCategory)

	return Report{
		Timezone:     loc.String(),
		CurrentMonth: cm,
		Months:       series,
	}
}

// sortedBuckets orders by total descending, then name.
func sortedBuckets(m map[string]decimal.Decimal) []Bucket {
	out := make([]Bucket, 0, len(m))
	for name, total := range m {
		out = append(out, Bucket{Name: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}
