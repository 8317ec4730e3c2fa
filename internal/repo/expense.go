package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fintrack/fintrack/internal/models"
	"github.com/google/uuid"
)

// ExpenseRepo stores expenses, scoped to their owner in the same way as IncomeRepo.
type ExpenseRepo struct {
	DB *sql.DB
}

func NewExpenseRepo(db *sql.DB) *ExpenseRepo {
	return &ExpenseRepo{DB: db}
}

const expenseColumns = `id, user_id, username, category, icon, amount, date, payment_method, created_at, updated_at`

func scanExpense(row rowScanner) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Username,
		&e.Category,
		&e.Icon,
		&e.Amount,
		&e.Date,
		&e.PaymentMethod,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// withDefaults fills in the icon and payment method the client may omit.
func withDefaults(f models.ExpenseFields) models.ExpenseFields {
	if f.Icon == "" {
		f.Icon = models.DefaultExpenseIcon
	}
	if f.PaymentMethod == "" {
		f.PaymentMethod = models.PaymentCash
	}
	return f
}

// Create stores a new expense for ownerID. username is the owner's name at write time.
func (r *ExpenseRepo) Create(ctx context.Context, ownerID, username string, f models.ExpenseFields) (models.Expense, error) {
	f = withDefaults(f)
	if !f.PaymentMethod.Valid() {
		return models.Expense{}, fmt.Errorf("invalid payment method %q", f.PaymentMethod)
	}

	now := time.Now().UTC()
	e := models.Expense{
		ID:            uuid.NewString(),
		UserID:        ownerID,
		Username:      username,
		Category:      f.Category,
		Icon:          f.Icon,
		Amount:        f.Amount,
		Date:          f.Date.UTC(),
		PaymentMethod: f.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.UserID, e.Username, e.Category, e.Icon, e.Amount, e.Date, e.PaymentMethod, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

// List returns every expense owned by ownerID, most recent date first.
func (r *ExpenseRepo) List(ctx context.Context, ownerID string) ([]models.Expense, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE user_id = $1
		 ORDER BY date DESC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// Get returns the expense id if it is owned by ownerID.
func (r *ExpenseRepo) Get(ctx context.Context, ownerID, id string) (models.Expense, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Expense{}, ErrNotFoundOrNotOwned
	}

	e, err := scanExpense(r.DB.QueryRowContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses
		 WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expense{}, ErrNotFoundOrNotOwned
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// Update replaces the mutable fields of expense id owned by ownerID.
func (r *ExpenseRepo) Update(ctx context.Context, ownerID, id string, f models.ExpenseFields) (models.Expense, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Expense{}, ErrNotFoundOrNotOwned
	}
	f = withDefaults(f)
	if !f.PaymentMethod.Valid() {
		return models.Expense{}, fmt.Errorf("invalid payment method %q", f.PaymentMethod)
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE expenses
		 SET category = $1, icon = $2, amount = $3, date = $4, payment_method = $5, updated_at = $6
		 WHERE id = $7 AND user_id = $8`,
		f.Category, f.Icon, f.Amount, f.Date.UTC(), f.PaymentMethod, time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return models.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return models.Expense{}, err
	}

	return r.Get(ctx, ownerID, id)
}

// Delete removes expense id if it is owned by ownerID.
func (r *ExpenseRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFoundOrNotOwned
	}

	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return expectOneRow(res)
}
