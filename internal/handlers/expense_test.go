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
	"golang.org/x/crypto/bcrypt"
)

var expenseCols = []string{"id", "user_id", "username", "category", "icon", "amount", "date", "payment_method", "created_at", "updated_at"}

func newExpenseHandler(t *testing.T) (*ExpenseHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &ExpenseHandler{
		Repo:      repo.NewExpenseRepo(db),
		UserRepo:  repo.NewUserRepo(db, bcrypt.MinCost),
		AuditRepo: repo.NewAuditRepo(db),
	}, mock
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	h, mock := newExpenseHandler(t)

	mock.ExpectQuery(`SELECT id, username, email`).
		WithArgs(aliceID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(aliceID, "alice", "a@x.com"))
	mock.ExpectExec(`INSERT INTO expenses`).
		WithArgs(sqlmock.AnyArg(), aliceID, "alice", "Groceries", "🛒", "42.1", sqlmock.AnyArg(), "upi", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(aliceID, "create", "expense", sqlmock.AnyArg(), "Groceries", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := []byte(`{"category":"Groceries","icon":"🛒","amount":42.10,"date":"2024-01-05","paymentMethod":"upi"}`)
	rr := httptest.NewRecorder()
	h.CreateExpense(rr, asUser(httptest.NewRequest(http.MethodPost, "/api/auth/expense", bytesReader(body)), aliceID))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var out struct {
		Success bool `json:"success"`
		Expense struct {
			Category      string `json:"category"`
			PaymentMethod string `json:"paymentMethod"`
			Username      string `json:"username"`
		} `json:"expense"`
	}
	decode(t, rr, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "Groceries", out.Expense.Category)
	assert.Equal(t, "upi", out.Expense.PaymentMethod)
	assert.Equal(t, "alice", out.Expense.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_CreateExpense_InvalidPaymentMethod(t *testing.T) {
	h, mock := newExpenseHandler(t)

	body := []byte(`{"category":"Food","amount":1,"date":"2024-01-05","paymentMethod":"barter"}`)
	rr := httptest.NewRecorder()
	h.CreateExpense(rr, asUser(httptest.NewRequest(http.MethodPost, "/api/auth/expense", bytesReader(body)), aliceID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var out envelope
	decode(t, rr, &out)
	assert.Contains(t, out.Fields, "paymentMethod")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_ListExpenses(t *testing.T) {
	h, mock := newExpenseHandler(t)

	now := time.Now()
	mock.ExpectQuery(`FROM expenses\s+WHERE user_id = \$1`).
		WithArgs(aliceID).
		WillReturnRows(sqlmock.NewRows(expenseCols).
			AddRow(recID, aliceID, "alice", "Rent", "🏠", "1200", now, "bank transfer", now, now))

	rr := httptest.NewRecorder()
	h.ListExpenses(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/auth/expense", nil), aliceID))

	require.Equal(t, http.StatusOK, rr.Code)
	var out struct {
		Expenses []struct {
			PaymentMethod string  `json:"paymentMethod"`
			Amount        float64 `json:"amount"`
		} `json:"expenses"`
	}
	decode(t, rr, &out)
	require.Len(t, out.Expenses, 1)
	assert.Equal(t, "bank transfer", out.Expenses[0].PaymentMethod)
	assert.Equal(t, 1200.0, out.Expenses[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_UpdateExpense_ResetsOmittedFields(t *testing.T) {
	h, mock := newExpenseHandler(t)

	now := time.Now()
	mock.ExpectExec(`UPDATE expenses`).
		WithArgs("Rent", "🧾", "1250", sqlmock.AnyArg(), "cash", sqlmock.AnyArg(), recID, aliceID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM expenses\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(recID, aliceID).
		WillReturnRows(sqlmock.NewRows(expenseCols).
			AddRow(recID, aliceID, "alice", "Rent", "🧾", "1250", now, "cash", now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	body := []byte(`{"category":"Rent","amount":1250,"date":"2024-01-03"}`)
	req := asUser(requestWithChiURLParams(http.MethodPut, "/api/auth/expense/"+recID, body, map[string]string{"id": recID}), aliceID)
	rr := httptest.NewRecorder()
	h.UpdateExpense(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_UpdateExpense_NotOwned(t *testing.T) {
	h, mock := newExpenseHandler(t)

	mock.ExpectExec(`UPDATE expenses`).WillReturnResult(sqlmock.NewResult(0, 0))

	body := []byte(`{"category":"Rent","amount":1,"date":"2024-01-03"}`)
	req := asUser(requestWithChiURLParams(http.MethodPut, "/api/auth/expense/"+recID, body, map[string]string{"id": recID}), bobID)
	rr := httptest.NewRecorder()
	h.UpdateExpense(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Expense not found"}`, rr.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_AmountOutOfRange(t *testing.T) {
	h, mock := newExpenseHandler(t)

	for _, amount := range []string{"1e-200000000", "1e200000000", `"42"`} {
		body := []byte(`{"category":"Rent","amount":` + amount + `,"date":"2024-01-03"}`)

		rr := httptest.NewRecorder()
		h.CreateExpense(rr, asUser(httptest.NewRequest(http.MethodPost, "/api/auth/expense", bytesReader(body)), aliceID))
		assert.Equal(t, http.StatusBadRequest, rr.Code, amount)
		var out envelope
		decode(t, rr, &out)
		assert.Contains(t, out.Fields, "amount", amount)

		req := asUser(requestWithChiURLParams(http.MethodPut, "/api/auth/expense/"+recID, body, map[string]string{"id": recID}), aliceID)
		rr = httptest.NewRecorder()
		h.UpdateExpense(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, amount)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_DeleteExpense(t *testing.T) {
	h, mock := newExpenseHandler(t)

	mock.ExpectExec(`DELETE FROM expenses WHERE id = \$1 AND user_id = \$2`).
		WithArgs(recID, aliceID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`DELETE FROM expenses WHERE id = \$1 AND user_id = \$2`).
		WithArgs(recID, aliceID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := asUser(requestWithChiURLParams(http.MethodDelete, "/api/auth/expense/"+recID, nil, map[string]string{"id": recID}), aliceID)
	rr := httptest.NewRecorder()
	h.DeleteExpense(rr, req)
	assert.JSONEq(t, `{"success":true,"message":"Expense deleted"}`, rr.Body.String())

	// Deleting twice reports not found.
	req = asUser(requestWithChiURLParams(http.MethodDelete, "/api/auth/expense/"+recID, nil, map[string]string{"id": recID}), aliceID)
	rr = httptest.NewRecorder()
	h.DeleteExpense(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
