package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/obralink/cashbox-backend/internal/core/ports/services"
	"github.com/obralink/cashbox-backend/internal/dto"
	"github.com/obralink/cashbox-backend/internal/middleware"
)

// paymentHandler handles the payment application endpoints.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers the payment application routes. The rate
// limit middleware guards all money-moving endpoints.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade, rateLimit gin.HandlerFunc) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments", rateLimit)
	{
		payments.POST("/installments/:installmentID", h.applyInstallmentPayment)
		payments.POST("/installments/:installmentID/distribute", h.distributeInstallmentPayment)
		payments.POST("/contractor-payments/:paymentID", h.settleContractorPayment)
	}
}

func (h *paymentHandler) bindPayment(c *gin.Context) (dto.ApplyPaymentRequest, string, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind payment JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return req, "", false
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing actor"})
		return req, "", false
	}
	return req, actor, true
}

func (h *paymentHandler) applyInstallmentPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("installmentID")

	req, actor, ok := h.bindPayment(c)
	if !ok {
		return
	}

	installment, movement, err := h.paymentService.ApplyInstallmentPayment(c.Request.Context(), installmentID, req, actor)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.InstallmentPaymentResponse{
		Installment: dto.ToInstallmentResponse(installment),
		Movement:    dto.ToMovementResponse(movement),
	})
}

func (h *paymentHandler) distributeInstallmentPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("installmentID")

	req, actor, ok := h.bindPayment(c)
	if !ok {
		return
	}

	installment, movements, err := h.paymentService.DistributeInstallmentPayment(c.Request.Context(), installmentID, req, actor)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	resp := dto.DistributionResponse{
		Installment:     dto.ToInstallmentResponse(installment),
		ProjectMovement: dto.ToMovementResponse(&movements[0]),
	}
	if len(movements) > 1 {
		resp.AdminMovement = dto.ToMovementResponse(&movements[1])
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *paymentHandler) settleContractorPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	paymentID := c.Param("paymentID")

	req, actor, ok := h.bindPayment(c)
	if !ok {
		return
	}

	payment, movement, err := h.paymentService.SettleContractorPayment(c.Request.Context(), paymentID, req, actor)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ContractorSettlementResponse{
		ContractorPayment: dto.ToContractorPaymentResponse(payment),
		Movement:          dto.ToMovementResponse(movement),
	})
}
