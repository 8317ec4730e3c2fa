package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack/internal/middleware"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/fintrack/fintrack/internal/repo"
	"github.com/go-chi/chi/v5"
)

// Messages of the expense endpoints.
const (
	MsgExpenseNotFound = "Expense not found"
	MsgExpenseDeleted  = "Expense deleted"
)

// ==========================
// ExpenseHandler
// ==========================
type ExpenseHandler struct {
	Repo      *repo.ExpenseRepo
	UserRepo  *repo.UserRepo
	AuditRepo *repo.AuditRepo
}

// expenseInput is a full replacement on PUT: an omitted paymentMethod becomes cash
// and an omitted icon the default icon.
type expenseInput struct {
	Category      string          `json:"category" validate:"required,max=100"`
	Icon          string          `json:"icon" validate:"max=64"`
	Amount        json.RawMessage `json:"amount" validate:"-"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod" validate:"omitempty,payment_method"`
}

func (in expenseInput) toFields() (models.ExpenseFields, map[string]string) {
	in.Category = strings.TrimSpace(in.Category)
	in.Icon = strings.TrimSpace(in.Icon)
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))

	fields := structFields(in)
	pm := models.PaymentMethod(in.PaymentMethod)
	if pm == "" {
		pm = models.PaymentCash
	}
	f := models.ExpenseFields{
		Category:      in.Category,
		Icon:          in.Icon,
		Amount:        checkAmount(in.Amount, fields),
		Date:          checkDate(in.Date, fields),
		PaymentMethod: pm,
	}
	return f, fields
}

// ==========================
// Create Expense
// ==========================
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	var input expenseInput
	if !readBody(w, r, &input) {
		return
	}
	f, fields := input.toFields()
	if len(fields) > 0 {
		JSONValidationError(w, MsgValidationFailed, fields, http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.FindByID(r.Context(), userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		JSONError(w, MsgUserNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to add expense.", err)
		return
	}

	expense, err := h.Repo.Create(r.Context(), userID, user.Username, f)
	if err != nil {
		serverError(w, r, "Failed to add expense.", err)
		return
	}

	recordMutation(r.Context(), h.AuditRepo, userID, models.ActionCreate, models.ResourceExpense, expense.ID, expense.Category)
	JSON(w, map[string]any{"expense": expense}, http.StatusCreated)
}

// ==========================
// List Expenses
// ==========================
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	expenses, err := h.Repo.List(r.Context(), userID)
	if err != nil {
		serverError(w, r, "Failed to fetch expenses.", err)
		return
	}

	JSON(w, map[string]any{"expenses": expenses}, http.StatusOK)
}

// ==========================
// Update Expense
// ==========================
func (h *ExpenseHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var input expenseInput
	if !readBody(w, r, &input) {
		return
	}
	f, fields := input.toFields()
	if len(fields) > 0 {
		JSONValidationError(w, MsgValidationFailed, fields, http.StatusBadRequest)
		return
	}

	expense, err := h.Repo.Update(r.Context(), userID, id, f)
	if errors.Is(err, repo.ErrNotFoundOrNotOwned) {
		JSONError(w, MsgExpenseNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to update expense.", err)
		return
	}

	recordMutation(r.Context(), h.AuditRepo, userID, models.ActionUpdate, models.ResourceExpense, expense.ID, expense.Category)
	JSON(w, map[string]any{"expense": expense}, http.StatusOK)
}

// ==========================
// Delete Expense
// ==========================
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	err := h.Repo.Delete(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFoundOrNotOwned) {
		JSONError(w, MsgExpenseNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, ErrMessageInternal, err)
		return
	}

	recordMutation(r.Context(), h.AuditRepo, userID, models.ActionDelete, models.ResourceExpense, id, "")
	JSON(w, map[string]any{"message": MsgExpenseDeleted}, http.StatusOK)
}
