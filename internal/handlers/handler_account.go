package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/benefit_accounts_app/internal/dto"
	"github.com/SscSPs/benefit_accounts_app/internal/middleware"
	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/benefit_accounts_app/internal/core/ports/services"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
// protect guards the mutating routes.
func registerAccountRoutes(accounts *gin.RouterGroup, accountService portssvc.AccountSvcFacade, protect gin.HandlerFunc) {
	h := newAccountHandler(accountService)

	accounts.GET("", h.listAccounts)
	accounts.GET("/active", h.listActiveAccounts)
	accounts.GET("/:id", h.getAccount)
	accounts.POST("", protect, h.createAccount)
	accounts.PUT("/:id", protect, h.updateAccount)
	accounts.DELETE("/:id", protect, h.deleteAccount)
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a new benefit account. Accounts start active unless isActive is false.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req.ToDraft())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

// getAccount godoc
// @Summary Get an account by ID
// @Description Retrieves a specific account, active or not
// @Tags accounts
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists every account, including deactivated ones, in creation order
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Debug("Accounts listed", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// listActiveAccounts godoc
// @Summary List active accounts
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /accounts/active [get]
func (h *accountHandler) listActiveAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListActiveAccounts(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Applies a partial update. When version is sent it must match the stored version.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account was modified concurrently"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_account_id", accountID))

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req.ToPatch())
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Account updated successfully", slog.Int64("version", updated.Version))
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// deleteAccount godoc
// @Summary Deactivate an account
// @Description Soft deletes an account. The balance is kept and the account stays readable.
// @Tags accounts
// @Param   id path string true "Account ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account was modified concurrently"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	accountID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("target_account_id", accountID))

	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID); err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("Account deactivated")
	c.Status(http.StatusNoContent)
}
