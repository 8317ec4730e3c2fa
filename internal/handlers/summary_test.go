package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fintrack/fintrack/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryHandler_GetSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM incomes`).
		WithArgs(aliceID).
		WillReturnRows(sqlmock.NewRows(incomeCols).
			AddRow(recID, aliceID, "alice", "Salary", "💰", "5000", now.AddDate(0, 0, -5), now, now))
	mock.ExpectQuery(`FROM expenses`).
		WithArgs(aliceID).
		WillReturnRows(sqlmock.NewRows(expenseCols).
			AddRow(recID, aliceID, "alice", "Rent", "🏠", "1200", now.AddDate(0, 0, -3), "cash", now, now))

	h := &SummaryHandler{
		Incomes:         repo.NewIncomeRepo(db),
		Expenses:        repo.NewExpenseRepo(db),
		DefaultTimezone: "UTC",
		Now:             func() time.Time { return now },
	}

	rr := httptest.NewRecorder()
	h.GetSummary(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/auth/summary?months=3", nil), aliceID))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out struct {
		Success bool `json:"success"`
		Summary struct {
			Timezone     string `json:"timezone"`
			CurrentMonth struct {
				Month        int     `json:"month"`
				TotalIncome  float64 `json:"totalIncome"`
				TotalExpense float64 `json:"totalExpense"`
				Balance      float64 `json:"balance"`
			} `json:"currentMonth"`
			Months []struct {
				Month int `json:"month"`
			} `json:"months"`
		} `json:"summary"`
	}
	decode(t, rr, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "UTC", out.Summary.Timezone)
	assert.Equal(t, 3, out.Summary.CurrentMonth.Month)
	assert.Equal(t, 5000.0, out.Summary.CurrentMonth.TotalIncome)
	assert.Equal(t, 1200.0, out.Summary.CurrentMonth.TotalExpense)
	assert.Equal(t, 3800.0, out.Summary.CurrentMonth.Balance)
	assert.Len(t, out.Summary.Months, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryHandler_GetSummary_BadParams(t *testing.T) {
	h := &SummaryHandler{DefaultTimezone: "UTC"}

	for _, q := range []string{"?tz=Mars/Olympus", "?months=0", "?months=25", "?months=abc"} {
		rr := httptest.NewRecorder()
		h.GetSummary(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/auth/summary"+q, nil), aliceID))
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}
