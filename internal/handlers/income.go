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

// Messages of the income endpoints.
const (
	MsgIncomeNotFound = "Income not found"
	MsgIncomeDeleted  = "Income deleted"
)

// ==========================
// IncomeHandler
// ==========================
type IncomeHandler struct {
	Repo      *repo.IncomeRepo
	UserRepo  *repo.UserRepo
	AuditRepo *repo.AuditRepo
}

type incomeInput struct {
	Source string          `json:"source" validate:"required,max=100"`
	Icon   string          `json:"icon" validate:"max=64"`
	Amount json.RawMessage `json:"amount" validate:"-"`
	Date   string          `json:"date"`
}

// toFields validates the input and converts it. The same rules apply on create and update.
func (in incomeInput) toFields() (models.IncomeFields, map[string]string) {
	in.Source = strings.TrimSpace(in.Source)
	in.Icon = strings.TrimSpace(in.Icon)

	fields := structFields(in)
	f := models.IncomeFields{
		Source: in.Source,
		Icon:   in.Icon,
		Amount: checkAmount(in.Amount, fields),
		Date:   checkDate(in.Date, fields),
	}
	return f, fields
}

// ==========================
// Create Income
// ==========================
func (h *IncomeHandler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	var input incomeInput
	if !readBody(w, r, &input) {
		return
	}
	f, fields := input.toFields()
	if len(fields) > 0 {
		JSONValidationError(w, MsgValidationFailed, fields, http.StatusBadRequest)
		return
	}

	// The owner's current username is copied onto the record.
	user, err := h.UserRepo.FindByID(r.Context(), userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		JSONError(w, MsgUserNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to add income.", err)
		return
	}

	income, err := h.Repo.Create(r.Context(), userID, user.Username, f)
	if err != nil {
		serverError(w, r, "Failed to add income.", err)
		return
	}

	recordMutation(r.Context(), h.AuditRepo, userID, models.ActionCreate, models.ResourceIncome, income.ID, income.Source)
	JSON(w, map[string]any{"income": income}, http.StatusCreated)
}

// ==========================
// List Incomes
// ==========================
func (h *IncomeHandler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}

	incomes, err := h.Repo.List(r.Context(), userID)
	if err != nil {
		serverError(w, r, "Failed to fetch incomes.", err)
		return
	}

	JSON(w, map[string]any{"incomes": incomes}, http.StatusOK)
}

// ==========================
// Update Income
// ==========================
func (h *IncomeHandler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var input incomeInput
	if !readBody(w, r, &input) {
		return
	}
	f, fields := input.toFields()
	if len(fields) > 0 {
		JSONValidationError(w, MsgValidationFailed, fields, http.StatusBadRequest)
		return
	}

	income, err := h.Repo.Update(r.Context(), userID, id, f)
	if errors.Is(err, repo.ErrNotFoundOrNotOwned) {
		JSONError(w, MsgIncomeNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to update income.", err)
		return
	}

	recordMutation(r.Context(), h.AuditRepo, userID, models.ActionUpdate, models.ResourceIncome, income.ID, income.Source)
	JSON(w, map[string]any{"income": income}, http.StatusOK)
}

// ==========================
// Delete Income
// ==========================
func (h *IncomeHandler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, middleware.MsgNoToken, http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	err := h.Repo.Delete(r.Context(), userID, id)
	if errors.Is(err, repo.ErrNotFoundOrNotOwned) {
		JSONError(w, MsgIncomeNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(w, r, ErrMessageInternal, err)
		return
	}

	recordMutation(r.Context(), h.AuditRepo, userID, models.ActionDelete, models.ResourceIncome, id, "")
	JSON(w, map[string]any{"message": MsgIncomeDeleted}, http.StatusOK)
}
