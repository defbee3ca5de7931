package domain

// MemberBalance is one member's derived net position in minor units.
// Positive means the member is owed money; negative means they owe.
type MemberBalance struct {
	MemberID string `json:"memberID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	Balance  int64  `json:"balance"`
}

// BalanceReport is the result of a balance aggregation. PeriodID is nil for
// all-time scope. The fund balance is reported separately and never appears
// in the Members slice.
type BalanceReport struct {
	PeriodID    *string         `json:"periodID,omitempty"`
	Members     []MemberBalance `json:"members"`
	FundBalance int64           `json:"fundBalance"`
}

// Transfer is one computed settlement payment: From owes To the given amount.
type Transfer struct {
	FromMemberID string `json:"fromMemberID"`
	FromName     string `json:"fromName"`
	ToMemberID   string `json:"toMemberID"`
	ToName       string `json:"toName"`
	Amount       int64  `json:"amount"`
}

// SettlementPlan is the preview of a settlement: the member-to-member
// transfers plus the residual movements against the outside world that would
// zero the period's balances, without anything persisted. A positive residual
// balance is paid out of the group to that member; a negative one is
// collected from them.
type SettlementPlan struct {
	PeriodID   string          `json:"periodID"`
	PeriodName string          `json:"periodName"`
	Transfers  []Transfer      `json:"transfers"`
	Residuals  []MemberBalance `json:"residuals"`
	FundDraw   int64           `json:"fundDraw"`
}

// SettlementResult reports a completed settlement: the closed period, the
// newly opened one, and the transfers and residual payouts that were
// persisted against the closing period.
type SettlementResult struct {
	SettledPeriod Period          `json:"settledPeriod"`
	NewPeriod     Period          `json:"newPeriod"`
	Transfers     []Transfer      `json:"transfers"`
	Residuals     []MemberBalance `json:"residuals"`
	Confirmation  string          `json:"confirmation"`
}

// PeriodSummary aggregates one period's totals for reporting.
type PeriodSummary struct {
	PeriodID     string `json:"periodID"`
	PeriodName   string `json:"periodName"`
	IsSettled    bool   `json:"isSettled"`
	DepositTotal int64  `json:"depositTotal"`
	ExpenseTotal int64  `json:"expenseTotal"`
	BatchCount   int    `json:"batchCount"`
	FundBalance  int64  `json:"fundBalance"`
}
