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

// periodHandler handles HTTP requests related to accounting periods.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(ps portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{
		periodService: ps,
	}
}

// registerPeriodRoutes registers routes related to periods. Periods are
// created by settlement only, so the surface here is read only.
func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)

	periods := rg.Group("/periods")
	{
		periods.GET("", h.listPeriods)
		periods.GET("/current", h.getCurrentPeriod)
		periods.GET("/:id", h.getPeriodByID)
		periods.GET("/:id/summary", h.getPeriodSummary)
	}
}

// listPeriods godoc
// @Summary List all periods
// @Description Retrieves all accounting periods, newest first.
// @Tags periods
// @Produce  json
// @Success 200 {object} dto.ListPeriodsResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	periods, err := h.periodService.ListPeriods(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list periods", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list periods"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPeriodsResponse(periods))
}

// getCurrentPeriod godoc
// @Summary Get the current open period
// @Tags periods
// @Produce  json
// @Success 200 {object} dto.PeriodResponse
// @Failure 409 {object} ErrorResponse "No open period exists"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods/current [get]
func (h *periodHandler) getCurrentPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	period, err := h.periodService.GetCurrentPeriod(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrIllegalState) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		} else {
			logger.Error("Failed to get current period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve current period"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// getPeriodByID godoc
// @Summary Get a period by ID
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods/{id} [get]
func (h *periodHandler) getPeriodByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("id")

	period, err := h.periodService.GetPeriodByID(c.Request.Context(), periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Period not found"})
		} else {
			logger.Error("Failed to get period", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve period"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}

// getPeriodSummary godoc
// @Summary Get a period's activity summary
// @Description Aggregates deposit, expense and settlement totals for one period.
// @Tags periods
// @Produce  json
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodSummaryResponse
// @Failure 404 {object} ErrorResponse "Period not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /periods/{id}/summary [get]
func (h *periodHandler) getPeriodSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("id")

	summary, err := h.periodService.GetPeriodSummary(c.Request.Context(), periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Period not found"})
		} else {
			logger.Error("Failed to get period summary", slog.String("period_id", periodID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve period summary"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodSummaryResponse(summary))
}
