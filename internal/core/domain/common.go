package domain

import "time"

// AuditFields holds the store-managed timestamps of a record.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
