package dto

import (
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/utils"
)

// SettlePeriodRequest defines the data needed to settle the current period.
type SettlePeriodRequest struct {
	NewPeriodName string `json:"newPeriodName" binding:"required,min=1,max=100"`
}

// TransferResponse defines one settlement payment.
type TransferResponse struct {
	FromMemberID string `json:"fromMemberID"`
	FromName     string `json:"fromName"`
	ToMemberID   string `json:"toMemberID"`
	ToName       string `json:"toName"`
	Amount       string `json:"amount"`
}

// ResidualResponse defines one settlement movement against the outside
// world: a positive amount is paid out to the member, a negative one is
// collected from them.
type ResidualResponse struct {
	MemberID string `json:"memberID"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
}

// SettlementPlanResponse defines the settlement preview for the current period.
type SettlementPlanResponse struct {
	PeriodID   string             `json:"periodID"`
	PeriodName string             `json:"periodName"`
	Transfers  []TransferResponse `json:"transfers"`
	Residuals  []ResidualResponse `json:"residuals"`
	FundDraw   string             `json:"fundDraw"`
}

// SettlementResultResponse defines the outcome of a completed settlement.
type SettlementResultResponse struct {
	SettledPeriod PeriodResponse     `json:"settledPeriod"`
	NewPeriod     PeriodResponse     `json:"newPeriod"`
	Transfers     []TransferResponse `json:"transfers"`
	Residuals     []ResidualResponse `json:"residuals"`
	Confirmation  string             `json:"confirmation"`
}

// ToTransferResponses converts a slice of domain.Transfer to []TransferResponse.
func ToTransferResponses(transfers []domain.Transfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		responses[i] = TransferResponse{
			FromMemberID: t.FromMemberID,
			FromName:     t.FromName,
			ToMemberID:   t.ToMemberID,
			ToName:       t.ToName,
			Amount:       utils.FormatMinorUnits(t.Amount),
		}
	}
	return responses
}

// ToResidualResponses converts a slice of residual domain.MemberBalance to []ResidualResponse.
func ToResidualResponses(residuals []domain.MemberBalance) []ResidualResponse {
	responses := make([]ResidualResponse, len(residuals))
	for i, r := range residuals {
		responses[i] = ResidualResponse{
			MemberID: r.MemberID,
			Name:     r.Name,
			Amount:   utils.FormatMinorUnits(r.Balance),
		}
	}
	return responses
}

// ToSettlementPlanResponse converts a domain.SettlementPlan to SettlementPlanResponse DTO.
func ToSettlementPlanResponse(p *domain.SettlementPlan) SettlementPlanResponse {
	return SettlementPlanResponse{
		PeriodID:   p.PeriodID,
		PeriodName: p.PeriodName,
		Transfers:  ToTransferResponses(p.Transfers),
		Residuals:  ToResidualResponses(p.Residuals),
		FundDraw:   utils.FormatMinorUnits(p.FundDraw),
	}
}

// ToSettlementResultResponse converts a domain.SettlementResult to SettlementResultResponse DTO.
func ToSettlementResultResponse(r *domain.SettlementResult) SettlementResultResponse {
	return SettlementResultResponse{
		SettledPeriod: ToPeriodResponse(&r.SettledPeriod),
		NewPeriod:     ToPeriodResponse(&r.NewPeriod),
		Transfers:     ToTransferResponses(r.Transfers),
		Residuals:     ToResidualResponses(r.Residuals),
		Confirmation:  r.Confirmation,
	}
}
