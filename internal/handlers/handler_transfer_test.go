package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SscSPs/benefit_accounts_app/internal/apperrors"
	"github.com/SscSPs/benefit_accounts_app/internal/core/domain"
	"github.com/SscSPs/benefit_accounts_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *AccountHandlerTestSuite) TestTransfer_Success() {
	from, to := sampleAccount("A", "900.00"), sampleAccount("B", "600.00")
	from.Version, to.Version = 2, 2
	amount := decimal.RequireFromString("100.00")

	suite.mockTransferService.On("Transfer", mock.Anything, domain.TransferRequest{
		FromID: from.AccountID, ToID: to.AccountID, Amount: amount,
	}).Return(&domain.TransferResult{From: *from, To: *to, Amount: amount, Attempts: 1}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/transfer",
		map[string]any{"fromId": from.AccountID, "toId": to.AccountID, "amount": "100.00"}, true)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.TransferResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.From.Balance.Equal(decimal.RequireFromString("900.00")))
	suite.True(res.To.Balance.Equal(decimal.RequireFromString("600.00")))
	suite.Equal(1, res.Attempts)
}

func (suite *AccountHandlerTestSuite) TestTransfer_AcceptsNumericAmount() {
	suite.mockTransferService.On("Transfer", mock.Anything, mock.MatchedBy(func(r domain.TransferRequest) bool {
		return r.Amount.Equal(decimal.RequireFromString("12.5"))
	})).Return(&domain.TransferResult{Amount: decimal.RequireFromString("12.5"), Attempts: 2}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/transfer", `{"fromId":"a","toId":"b","amount":12.5}`, true)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *AccountHandlerTestSuite) TestTransfer_MissingAmount() {
	w := suite.do(http.MethodPost, "/api/v1/accounts/transfer", map[string]any{"fromId": "a", "toId": "b"}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.decodeError(w).Errors, "amount")
}

func (suite *AccountHandlerTestSuite) TestTransfer_AmountBelowMinimum() {
	for _, amount := range []string{"0", "0.001", "-5"} {
		w := suite.do(http.MethodPost, "/api/v1/accounts/transfer",
			map[string]any{"fromId": "a", "toId": "b", "amount": amount}, true)

		suite.Equal(http.StatusBadRequest, w.Code, amount)
		suite.Contains(suite.decodeError(w).Errors, "amount", amount)
	}
}

func (suite *AccountHandlerTestSuite) TestTransfer_RequiresToken() {
	w := suite.do(http.MethodPost, "/api/v1/accounts/transfer", map[string]any{"fromId": "a", "toId": "b", "amount": "1"}, false)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountHandlerTestSuite) TestTransfer_ErrorStatuses() {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"same account", apperrors.NewInvalidTransfer("cannot transfer to the same account"), http.StatusBadRequest},
		{"inactive", apperrors.NewInactiveAccount("a"), http.StatusBadRequest},
		{"insufficient", apperrors.NewInsufficientBalance("a", decimal.NewFromInt(500), decimal.NewFromInt(1000)), http.StatusBadRequest},
		{"not found", apperrors.NewNotFound("source account", "a"), http.StatusNotFound},
		{"conflict", fmt.Errorf("transfer not committed after 3 attempts: %w", apperrors.NewConflict("a")), http.StatusConflict},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			suite.mockTransferService.On("Transfer", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/accounts/transfer",
				map[string]any{"fromId": "a", "toId": "b", "amount": "1000.00"}, true)

			suite.Equal(tc.status, w.Code)
			res := suite.decodeError(w)
			suite.Equal(tc.status, res.Status)
			suite.Equal(tc.err.Error(), res.Message)
		})
	}
}

func (suite *AccountHandlerTestSuite) TestTransfer_SelfTransferSkipsAmountMinimum() {
	suite.mockTransferService.On("Transfer", mock.Anything, mock.MatchedBy(func(r domain.TransferRequest) bool {
		return r.FromID == "x" && r.ToID == "x" && r.Amount.IsZero()
	})).Return(nil, apperrors.NewInvalidTransfer("cannot transfer to the same account")).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/transfer", `{"fromId":"x","toId":"x","amount":0}`, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	res := suite.decodeError(w)
	suite.Contains(res.Message, "cannot transfer to the same account")
	suite.Empty(res.Errors)
}
