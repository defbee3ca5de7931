package models

import "time"

// BatchKind mirrors domain.BatchKind at the storage layer.
type BatchKind string

// EntryDirection mirrors domain.EntryDirection at the storage layer.
type EntryDirection string

// ParticipantKind mirrors domain.ParticipantKind at the storage layer.
type ParticipantKind string

// LedgerBatch maps to the ledger_batches table.
type LedgerBatch struct {
	BatchID     string    `db:"batch_id"`
	PeriodID    string    `db:"period_id"`
	Kind        BatchKind `db:"kind"`
	Description string    `db:"description"`
	CategoryID  *string   `db:"category_id"`
	OccurredAt  time.Time `db:"occurred_at"`
	AuditFields
}

// LedgerEntry maps to the ledger_entries table. Amount is in integer minor
// units and a CHECK constraint keeps it strictly positive.
type LedgerEntry struct {
	EntryID     string          `db:"entry_id"`
	BatchID     string          `db:"batch_id"`
	Direction   EntryDirection  `db:"direction"`
	Participant ParticipantKind `db:"participant"`
	MemberID    *string         `db:"member_id"`
	Amount      int64           `db:"amount"`
	Memo        string          `db:"memo"`
	AuditFields
}
