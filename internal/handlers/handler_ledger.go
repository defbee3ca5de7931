package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
	"github.com/divvyhq/divvy-backend/internal/dto"
	"github.com/divvyhq/divvy-backend/internal/middleware"
)

// ledgerHandler handles HTTP requests that record financial events.
type ledgerHandler struct {
	recorderService portssvc.RecorderSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(rs portssvc.RecorderSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		recorderService: rs,
	}
}

// registerLedgerRoutes registers the event recording routes.
func registerLedgerRoutes(rg *gin.RouterGroup, recorderService portssvc.RecorderSvcFacade) {
	h := newLedgerHandler(recorderService)

	rg.POST("/expenses", h.recordExpense)
	rg.POST("/deposits", h.recordDeposit)
	rg.POST("/refunds", h.recordRefund)
	rg.GET("/batches/:id", h.getBatch)
	rg.GET("/periods/:id/batches", h.listPeriodBatches)
}

// recordExpense godoc
// @Summary Record a shared expense
// @Description Splits an expense evenly across the active roster. The indivisible remainder rotates through members. Set paidFromFund to draw from the public fund first.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   expense body dto.RecordExpenseRequest true "Expense details"
// @Success 201 {object} dto.RecordReceiptResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "No open period or empty roster"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *ledgerHandler) recordExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	h.record(c, func(creatorUserID string) (*domain.RecordReceipt, error) {
		return h.recorderService.RecordExpense(c.Request.Context(), req, creatorUserID)
	})
}

// recordDeposit godoc
// @Summary Record a deposit
// @Description Credits money brought in from outside to one member or to the public fund.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   deposit body dto.RecordDepositRequest true "Deposit details"
// @Success 201 {object} dto.RecordReceiptResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "No open period"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /deposits [post]
func (h *ledgerHandler) recordDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordDeposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	h.record(c, func(creatorUserID string) (*domain.RecordReceipt, error) {
		return h.recorderService.RecordDeposit(c.Request.Context(), req, creatorUserID)
	})
}

// recordRefund godoc
// @Summary Record a refund
// @Description Debits a member for money paid back out to them.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   refund body dto.RecordRefundRequest true "Refund details"
// @Success 201 {object} dto.RecordReceiptResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "No open period"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /refunds [post]
func (h *ledgerHandler) recordRefund(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordRefund", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	h.record(c, func(creatorUserID string) (*domain.RecordReceipt, error) {
		return h.recorderService.RecordRefund(c.Request.Context(), req, creatorUserID)
	})
}

// getBatch godoc
// @Summary Get a stored batch
// @Description Returns one ledger batch with its entries.
// @Tags ledger
// @Produce  json
// @Param   id path string true "Batch ID"
// @Success 200 {object} dto.BatchDetailResponse
// @Failure 404 {object} ErrorResponse "Batch not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /batches/{id} [get]
func (h *ledgerHandler) getBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	batchID := c.Param("id")

	detail, err := h.recorderService.GetBatchByID(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Batch not found"})
		} else {
			logger.Error("Failed to get batch", slog.String("batch_id", batchID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve batch"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchDetailResponse(detail))
}

// listPeriodBatches godoc
// @Summary List a period's batches
// @Description Returns the batch headers recorded against one period, in insertion order.
// @Tags ledger
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {array} dto.BatchResponse
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods/{id}/batches [get]
func (h *ledgerHandler) listPeriodBatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("id")

	batches, err := h.recorderService.ListBatchesByPeriod(c.Request.Context(), periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Period not found"})
		} else {
			logger.Error("Failed to list period batches", slog.String("period_id", periodID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list batches"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchResponses(batches))
}

// record runs one recording operation and maps service errors to HTTP codes.
func (h *ledgerHandler) record(c *gin.Context, op func(creatorUserID string) (*domain.RecordReceipt, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	receipt, err := op(creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrIllegalState), errors.Is(err, apperrors.ErrInvalidState):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to record ledger event", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record event"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecordReceiptResponse(receipt))
}
