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

// ========================
// REPOSITORY STRUCT
// ========================

// IncomeRepo stores incomes. Every method takes the owner's id and only ever
// touches rows with that owner.
type IncomeRepo struct {
	DB *sql.DB
}

func NewIncomeRepo(db *sql.DB) *IncomeRepo {
	return &IncomeRepo{DB: db}
}

const incomeColumns = `id, user_id, username, source, icon, amount, date, created_at, updated_at`

func scanIncome(row rowScanner) (models.Income, error) {
	var in models.Income
	err := row.Scan(
		&in.ID,
		&in.UserID,
		&in.Username,
		&in.Source,
		&in.Icon,
		&in.Amount,
		&in.Date,
		&in.CreatedAt,
		&in.UpdatedAt,
	)
	return in, err
}

// ========================
// CREATE INCOME
// ========================

// Create stores a new income for ownerID. username is the owner's name at write time.
func (r *IncomeRepo) Create(ctx context.Context, ownerID, username string, f models.IncomeFields) (models.Income, error) {
	now := time.Now().UTC()
	in := models.Income{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Username:  username,
		Source:    f.Source,
		Icon:      f.Icon,
		Amount:    f.Amount,
		Date:      f.Date.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Icon == "" {
		in.Icon = models.DefaultIncomeIcon
	}

	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO incomes (`+incomeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		in.ID, in.UserID, in.Username, in.Source, in.Icon, in.Amount, in.Date, in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return models.Income{}, fmt.Errorf("insert income: %w", err)
	}
	return in, nil
}

// ========================
// LIST INCOMES
// ========================

// List returns every income owned by ownerID, most recent date first.
func (r *IncomeRepo) List(ctx context.Context, ownerID string) ([]models.Income, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+incomeColumns+`
		 FROM incomes
		 WHERE user_id = $1
		 ORDER BY date DESC, created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}

// ========================
// GET INCOME
// ========================

// Get returns the income id if it is owned by ownerID.
func (r *IncomeRepo) Get(ctx context.Context, ownerID, id string) (models.Income, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Income{}, ErrNotFoundOrNotOwned
	}

	in, err := scanIncome(r.DB.QueryRowContext(ctx,
		`SELECT `+incomeColumns+`
		 FROM incomes
		 WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Income{}, ErrNotFoundOrNotOwned
	}
	if err != nil {
		return models.Income{}, fmt.Errorf("get income: %w", err)
	}
	return in, nil
}

// ========================
// UPDATE INCOME
// ========================

// Update replaces the mutable fields of income id owned by ownerID.
func (r *IncomeRepo) Update(ctx context.Context, ownerID, id string, f models.IncomeFields) (models.Income, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Income{}, ErrNotFoundOrNotOwned
	}
	icon := f.Icon
	if icon == "" {
		icon = models.DefaultIncomeIcon
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE incomes
		 SET source = $1, icon = $2, amount = $3, date = $4, updated_at = $5
		 WHERE id = $6 AND user_id = $7`,
		f.Source, icon, f.Amount, f.Date.UTC(), time.Now().UTC(), id, ownerID,
	)
	if err != nil {
		return models.Income{}, fmt.Errorf("update income: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return models.Income{}, err
	}

	return r.Get(ctx, ownerID, id)
}

// ========================
// DELETE INCOME
// ========================

// Delete removes income id if it is owned by ownerID.
func (r *IncomeRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFoundOrNotOwned
	}

	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM incomes WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return expectOneRow(res)
}

// expectOneRow maps "no row matched (id, owner)" to ErrNotFoundOrNotOwned.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFoundOrNotOwned
	}
	return nil
}
