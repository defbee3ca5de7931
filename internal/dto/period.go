package dto

import (
	"time"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/utils"
)

// PeriodResponse defines the data returned for a period.
type PeriodResponse struct {
	PeriodID  string     `json:"periodID"`
	Name      string     `json:"name"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Status    string     `json:"status"`
}

// ListPeriodsResponse wraps the list of periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// PeriodSummaryResponse defines the aggregated totals of one period.
// Amounts are decimal strings, e.g. "123.45".
type PeriodSummaryResponse struct {
	PeriodID     string `json:"periodID"`
	PeriodName   string `json:"periodName"`
	IsSettled    bool   `json:"isSettled"`
	DepositTotal string `json:"depositTotal"`
	ExpenseTotal string `json:"expenseTotal"`
	BatchCount   int    `json:"batchCount"`
	FundBalance  string `json:"fundBalance"`
}

// ToPeriodResponse converts a domain.Period to PeriodResponse DTO.
func ToPeriodResponse(p *domain.Period) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    string(p.Status),
	}
}

// ToListPeriodsResponse converts a slice of domain.Period to ListPeriodsResponse DTO.
func ToListPeriodsResponse(periods []domain.Period) ListPeriodsResponse {
	responses := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		responses[i] = ToPeriodResponse(&p)
	}
	return ListPeriodsResponse{Periods: responses}
}

// ToPeriodSummaryResponse converts a domain.PeriodSummary to PeriodSummaryResponse DTO.
func ToPeriodSummaryResponse(s *domain.PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		PeriodID:     s.PeriodID,
		PeriodName:   s.PeriodName,
		IsSettled:    s.IsSettled,
		DepositTotal: utils.FormatMinorUnits(s.DepositTotal),
		ExpenseTotal: utils.FormatMinorUnits(s.ExpenseTotal),
		BatchCount:   s.BatchCount,
		FundBalance:  utils.FormatMinorUnits(s.FundBalance),
	}
}
