package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/obralink/cashbox-backend/internal/core/domain"
	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/dto"
	"github.com/obralink/cashbox-backend/internal/middleware"
)

// accountHandler handles HTTP requests for cash-box accounts, their ledger
// listings and reconciliation.
type accountHandler struct {
	accountService        portssvc.AccountSvcFacade
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, rs portssvc.ReconciliationSvcFacade) *accountHandler {
	return &accountHandler{
		accountService:        as,
		reconciliationService: rs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newAccountHandler(accountService, reconciliationService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.GET("/:accountID/movements", h.listMovements)
		accounts.POST("/:accountID/reconcile", h.reconcile)
	}

	rg.GET("/movements/:movementID", h.getMovement)
	rg.GET("/projects/:projectID/account", h.getProjectAccount)
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	responses := make([]dto.AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = dto.ToAccountResponse(&accounts[i])
	}
	c.JSON(http.StatusOK, gin.H{"accounts": responses})
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	movementID := c.Param("movementID")

	movement, err := h.accountService.GetMovementByID(c.Request.Context(), movementID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(movement))
}

func (h *accountHandler) getProjectAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID := c.Param("projectID")

	account, err := h.accountService.GetProjectAccount(c.Request.Context(), projectID)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	currency := c.Query("currency")
	if currency == "" {
		currency = string(domain.ARS)
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), accountID, domain.Currency(currency))
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		Currency:  currency,
		Balance:   balance,
	})
}

func (h *accountHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listMovements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.accountService.ListMovements(c.Request.Context(), accountID, params)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *accountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	applyCorrections := c.Query("apply") == "true"

	report, err := h.reconciliationService.ReconcileAccount(c.Request.Context(), accountID, applyCorrections)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationReportResponse(report))
}
