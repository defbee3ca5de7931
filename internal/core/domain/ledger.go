package domain

import "time"

// EntryDirection indicates whether a ledger entry debits or credits its participant.
type EntryDirection string

const (
	Debit  EntryDirection = "DEBIT"
	Credit EntryDirection = "CREDIT"
)

// BatchKind classifies the economic event a ledger batch records.
type BatchKind string

const (
	BatchDeposit          BatchKind = "DEPOSIT"
	BatchExpense          BatchKind = "EXPENSE"
	BatchRefund           BatchKind = "REFUND"
	BatchSettlement       BatchKind = "SETTLEMENT"
	BatchFundDistribution BatchKind = "FUND_DISTRIBUTION"
)

// LedgerBatch is the header for one immutable economic event. Every batch is
// balanced: the sum of its DEBIT entries equals the sum of its CREDIT entries.
// Corrections are new offsetting batches, never mutation.
type LedgerBatch struct {
	BatchID     string    `json:"batchID"`
	PeriodID    string    `json:"periodID"`
	Kind        BatchKind `json:"kind"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"categoryID,omitempty"` // required for expenses
	OccurredAt  time.Time `json:"occurredAt"`
	AuditFields
}

// LedgerEntry is one single-sided line of a batch. Amount is always positive,
// in integer minor currency units; the direction carries the sign. MemberID is
// set only when Participant is ParticipantMember.
type LedgerEntry struct {
	EntryID     string          `json:"entryID"`
	BatchID     string          `json:"batchID"`
	Direction   EntryDirection  `json:"direction"`
	Participant ParticipantKind `json:"participant"`
	MemberID    *string         `json:"memberID,omitempty"`
	Amount      int64           `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
	AuditFields
}

// SignedAmount returns the entry amount signed by direction: credits are
// positive (the participant is owed more), debits negative.
func (e LedgerEntry) SignedAmount() int64 {
	if e.Direction == Credit {
		return e.Amount
	}
	return -e.Amount
}

// RecordReceipt is what the recorder hands back after persisting an event:
// the stored batch, its entries, and the human-readable confirmation line.
type RecordReceipt struct {
	Batch        LedgerBatch   `json:"batch"`
	Entries      []LedgerEntry `json:"entries"`
	Confirmation string        `json:"confirmation"`
}

// BatchDetail is one stored batch with its entries, as read back from history.
type BatchDetail struct {
	Batch   LedgerBatch   `json:"batch"`
	Entries []LedgerEntry `json:"entries"`
}

