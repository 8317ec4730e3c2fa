package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/fintrack/fintrack/internal/models"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. action is create|update|delete; resourceType is income|expense.
func (r *AuditRepo) Log(ctx context.Context, userID, action, resourceType, resourceID, details string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (user_id, action, resource_type, resource_id, details, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, action, resourceType, resourceID, details, time.Now().UTC(),
	)
	return err
}

// ListByUser returns userID's audit entries, newest first.
func (r *AuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, resource_type, resource_id, COALESCE(details,''), created_at FROM audit_log WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PurgeBefore deletes entries created before cutoff and returns how many were removed.
func (r *AuditRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
