package summary

import (
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBuild_CurrentMonthAndSeries(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	incomes := []models.Income{
		{Source: "Salary", Amount: dec("5000"), Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Source: "Gift", Amount: dec("100.50"), Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Source: "Salary", Amount: dec("5000"), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Source: "Old", Amount: dec("1"), Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	expenses := []models.Expense{
		{Category: "Rent", Amount: dec("1200"), Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{Category: "Food", Amount: dec("80.25"), Date: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
		{Category: "Food", Amount: dec("19.75"), Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	r := Build(incomes, expenses, now, time.UTC, DefaultMonths)

	cm := r.CurrentMonth
	assert.Equal(t, 2024, cm.Year)
	assert.Equal(t, 3, cm.Month)
	assert.True(t, cm.TotalIncome.Equal(dec("5100.5")), cm.TotalIncome.String())
	assert.True(t, cm.TotalExpense.Equal(dec("1300")), cm.TotalExpense.String())
	assert.True(t, cm.Balance.Equal(dec("3800.5")), cm.Balance.String())

	require.Len(t, cm.IncomeBySource, 2)
	assert.Equal(t, "Salary", cm.IncomeBySource[0].Name)
	require.Len(t, cm.ExpenseByCategory, 2)
	assert.Equal(t, "Rent", cm.ExpenseByCategory[0].Name)
	assert.True(t, cm.ExpenseByCategory[1].Total.Equal(dec("100")))

	require.Len(t, r.Months, 6)
	assert.Equal(t, 2023, r.Months[0].Year)
	assert.Equal(t, 10, r.Months[0].Month)
	last := r.Months[5]
	assert.Equal(t, 3, last.Month)
	assert.True(t, last.Income.Equal(dec("5100.5")))
	assert.True(t, r.Months[4].Income.Equal(dec("5000")))
	assert.True(t, r.Months[0].Income.IsZero())
}

func TestBuild_TimezoneDecidesMonth(t *testing.T) {
	// 2024-04-01T02:00Z is still March 31 in New York.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2024, 4, 1, 2, 0, 0, 0, time.UTC)
	incomes := []models.Income{{Source: "Late", Amount: dec("10"), Date: now}}

	utc := Build(incomes, nil, now, time.UTC, 2)
	assert.Equal(t, 4, utc.CurrentMonth.Month)
	assert.True(t, utc.CurrentMonth.TotalIncome.Equal(dec("10")))

	local := Build(incomes, nil, now, ny, 2)
	assert.Equal(t, 3, local.CurrentMonth.Month)
	assert.True(t, local.CurrentMonth.TotalIncome.Equal(dec("10")))
	assert.Equal(t, "America/New_York", local.Timezone)
}

func TestBuild_ClampsMonths(t *testing.T) {
	now := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Len(t, Build(nil, nil, now, nil, 0).Months, 1)
	assert.Len(t, Build(nil, nil, now, nil, 100).Months, MaxMonths)

	// AddDate from the first of the month never skips a short month.
	r := Build(nil, nil, now, time.UTC, 3)
	assert.Equal(t, []int{11, 12, 1}, []int{r.Months[0].Month, r.Months[1].Month, r.Months[2].Month})
}

func TestBuild_Empty(t *testing.T) {
	r := Build(nil, nil, time.Now(), time.UTC, DefaultMonths)
	assert.NotNil(t, r.CurrentMonth.IncomeBySource)
	assert.NotNil(t, r.CurrentMonth.ExpenseByCategory)
	assert.True(t, r.CurrentMonth.Balance.IsZero())
}
