package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/benefit_accounts_app/internal/dto"
	"github.com/SscSPs/benefit_accounts_app/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/benefit_accounts_app/internal/core/ports/services"
)

type transferHandler struct {
	transferService portssvc.TransferSvc
}

func newTransferHandler(ts portssvc.TransferSvc) *transferHandler {
	return &transferHandler{transferService: ts}
}

func registerTransferRoutes(accounts *gin.RouterGroup, transferService portssvc.TransferSvc, protect gin.HandlerFunc) {
	h := newTransferHandler(transferService)
	accounts.POST("/transfer", protect, h.transfer)
}

// transfer godoc
// @Summary Transfer balance between accounts
// @Description Debits fromId and credits toId atomically. Concurrent writers are retried a bounded number of times.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid transfer, inactive account or insufficient balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Transfer could not be committed"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/transfer [post]
func (h *transferHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	// A self-transfer is rejected by the transfer service whatever the amount.
	if req.FromID != req.ToID && req.Amount.LessThan(dto.MinTransferAmount) {
		logger.Warn("Transfer amount below minimum", slog.String("amount", req.Amount.String()))
		writeError(c, http.StatusBadRequest, "Invalid request",
			map[string]string{"amount": "must be at least " + dto.MinTransferAmount.StringFixed(2)})
		return
	}

	logger = logger.With(
		slog.String("from_account_id", req.FromID),
		slog.String("to_account_id", req.ToID),
		slog.String("amount", req.Amount.String()),
	)

	res, err := h.transferService.Transfer(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Transfer committed", slog.Int("attempts", res.Attempts))
	c.JSON(http.StatusOK, dto.ToTransferResponse(res))
}
