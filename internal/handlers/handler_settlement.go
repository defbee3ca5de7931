package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
	"github.com/divvyhq/divvy-backend/internal/dto"
	"github.com/divvyhq/divvy-backend/internal/middleware"
)

// settlementHandler handles HTTP requests that close out a period.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newSettlementHandler creates a new settlementHandler.
func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{
		settlementService: ss,
	}
}

// registerSettlementRoutes registers the settlement routes.
func registerSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newSettlementHandler(settlementService)

	settlement := rg.Group("/settlement")
	{
		settlement.GET("/plan", h.getSettlementPlan)
		settlement.POST("", h.settlePeriod)
	}
}

// getSettlementPlan godoc
// @Summary Preview the settlement plan
// @Description Computes the minimal transfers that would zero out the current period without persisting anything.
// @Tags settlement
// @Produce  json
// @Success 200 {object} dto.SettlementPlanResponse
// @Failure 409 {object} ErrorResponse "No open period exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /settlement/plan [get]
func (h *settlementHandler) getSettlementPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	plan, err := h.settlementService.GetSettlementPlan(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrIllegalState) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to compute settlement plan", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute settlement plan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementPlanResponse(plan))
}

// settlePeriod godoc
// @Summary Settle the current period
// @Description Records the settlement transfers, marks the current period settled and opens a new one, atomically. Remainder rotation flags reset for the new period.
// @Tags settlement
// @Accept  json
// @Produce  json
// @Param   settlement body dto.SettlePeriodRequest true "New period details"
// @Success 200 {object} dto.SettlementResultResponse
// @Failure 400 {object} ErrorResponse "Invalid new period name"
// @Failure 409 {object} ErrorResponse "No open period exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /settlement [post]
func (h *settlementHandler) settlePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettlePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.settlementService.SettleCurrentPeriod(c.Request.Context(), req.NewPeriodName, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrIllegalState):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to settle period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to settle period"})
		}
		return
	}

	logger.Info("Period settled",
		slog.String("settled_period_id", result.SettledPeriod.PeriodID),
		slog.String("new_period_id", result.NewPeriod.PeriodID),
		slog.Int("transfer_count", len(result.Transfers)),
	)
	c.JSON(http.StatusOK, dto.ToSettlementResultResponse(result))
}
