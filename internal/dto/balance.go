package dto

import (
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/utils"
)

// BalanceQueryParams defines query parameters for balance aggregation.
type BalanceQueryParams struct {
	PeriodID        *string `form:"periodID"`
	IncludeInactive bool    `form:"includeInactive,default=false"`
}

// MemberBalanceResponse defines one member's net position. The balance is a
// signed decimal string; positive means the member is owed money.
type MemberBalanceResponse struct {
	MemberID string `json:"memberID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	Balance  string `json:"balance"`
}

// BalanceReportResponse defines the result of a balance aggregation.
type BalanceReportResponse struct {
	PeriodID    *string                 `json:"periodID,omitempty"`
	Members     []MemberBalanceResponse `json:"members"`
	FundBalance string                  `json:"fundBalance"`
}

// ToBalanceReportResponse converts a domain.BalanceReport to BalanceReportResponse DTO.
func ToBalanceReportResponse(r *domain.BalanceReport) BalanceReportResponse {
	members := make([]MemberBalanceResponse, len(r.Members))
	for i, m := range r.Members {
		members[i] = MemberBalanceResponse{
			MemberID: m.MemberID,
			Name:     m.Name,
			IsActive: m.IsActive,
			Balance:  utils.FormatMinorUnits(m.Balance),
		}
	}
	return BalanceReportResponse{
		PeriodID:    r.PeriodID,
		Members:     members,
		FundBalance: utils.FormatMinorUnits(r.FundBalance),
	}
}
