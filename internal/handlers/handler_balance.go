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

// balanceHandler handles HTTP requests for balance aggregation.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

// newBalanceHandler creates a new balanceHandler.
func newBalanceHandler(bs portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{
		balanceService: bs,
	}
}

// registerBalanceRoutes registers the balance query route.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	rg.GET("/balances", h.getBalances)
}

// getBalances godoc
// @Summary Get member and fund balances
// @Description Derives net balances from the ledger. Positive means the member is owed money. Omit periodID for all-time balances.
// @Tags balances
// @Produce  json
// @Param   periodID query string false "Restrict to one period"
// @Param   includeInactive query bool false "Include deactivated members"
// @Success 200 {object} dto.BalanceReportResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /balances [get]
func (h *balanceHandler) getBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.BalanceQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	report, err := h.balanceService.ComputeBalances(c.Request.Context(), params.PeriodID, params.IncludeInactive)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Period not found"})
		} else {
			logger.Error("Failed to compute balances", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute balances"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceReportResponse(report))
}
