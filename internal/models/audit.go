package models

import "time"

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user"`
	Action       string    `json:"action"`       // create, update, delete
	ResourceType string    `json:"resourceType"` // income, expense
	ResourceID   string    `json:"resourceId"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Audit actions and resource types.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ResourceIncome  = "income"
	ResourceExpense = "expense"
)
