package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields are the timestamp columns shared by persisted rows.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Account is the row shape of the accounts table.
type Account struct {
	AccountID   string          `db:"account_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Balance     decimal.Decimal `db:"balance"`
	IsActive    bool            `db:"is_active"`
	Version     int64           `db:"version"`
	AuditFields
}
