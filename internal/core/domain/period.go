package domain

import "time"

// PeriodStatus indicates the lifecycle state of a billing period.
type PeriodStatus string

const (
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodSettled PeriodStatus = "SETTLED"
)

// Period is a billing cycle. Exactly one period is OPEN at any time; a
// settled period keeps its identity forever for audit.
type Period struct {
	PeriodID  string       `json:"periodID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   *time.Time   `json:"endDate,omitempty"`
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// IsSettled reports whether the period has been closed by a settlement.
func (p Period) IsSettled() bool {
	return p.Status == PeriodSettled
}
