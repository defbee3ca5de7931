package models

import "time"

// PeriodStatus mirrors domain.PeriodStatus at the storage layer.
type PeriodStatus string

const (
	PeriodOpen    PeriodStatus = "OPEN"
	PeriodSettled PeriodStatus = "SETTLED"
)

// Period maps to the periods table. A partial unique index guarantees at
// most one OPEN row.
type Period struct {
	PeriodID  string       `db:"period_id"`
	Name      string       `db:"name"`
	StartDate time.Time    `db:"start_date"`
	EndDate   *time.Time   `db:"end_date"`
	Status    PeriodStatus `db:"status"`
	AuditFields
}
