package models

// Member maps to the members table. RosterSeq is a bigserial that fixes the
// rotation order; PaidRemainderInCycle is the round-robin flag.
type Member struct {
	MemberID             string `db:"member_id"`
	Name                 string `db:"name"`
	IsActive             bool   `db:"is_active"`
	RosterSeq            int64  `db:"roster_seq"`
	PaidRemainderInCycle bool   `db:"paid_remainder_in_cycle"`
	AuditFields
}
