package dto

import (
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinTransferAmount is the smallest amount accepted over HTTP.
var MinTransferAmount = decimal.New(1, -2)

// TransferRequest moves amount from fromId to toId.
type TransferRequest struct {
	FromID string           `json:"fromId"`
	ToID   string           `json:"toId"`
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// ToDomain converts the request to the core transfer input.
func (r TransferRequest) ToDomain() domain.TransferRequest {
	req := domain.TransferRequest{FromID: r.FromID, ToID: r.ToID}
	if r.Amount != nil {
		req.Amount = *r.Amount
	}
	return req
}

// TransferResponse returns both accounts as committed.
type TransferResponse struct {
	From     AccountResponse `json:"from"`
	To       AccountResponse `json:"to"`
	Amount   decimal.Decimal `json:"amount"`
	Attempts int             `json:"attempts"`
}

func ToTransferResponse(res *domain.TransferResult) TransferResponse {
	return TransferResponse{
		From:     ToAccountResponse(&res.From),
		To:       ToAccountResponse(&res.To),
		Amount:   res.Amount,
		Attempts: res.Attempts,
	}
}
