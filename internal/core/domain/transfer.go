package domain

import "github.com/shopspring/decimal"

// TransferRequest moves Amount from the account FromID to the account ToID.
// It is never persisted.
type TransferRequest struct {
	FromID string
	ToID   string
	Amount decimal.Decimal
}

// TransferResult holds both accounts as committed by a successful transfer.
type TransferResult struct {
	From     Account
	To       Account
	Amount   decimal.Decimal
	Attempts int
}
