package domain

// Member is a person participating in the group ledger.
// RosterSeq gives the stable ordering used by the remainder rotation.
type Member struct {
	MemberID             string `json:"memberID"`
	Name                 string `json:"name"`
	IsActive             bool   `json:"isActive"`
	RosterSeq            int64  `json:"rosterSeq"`
	PaidRemainderInCycle bool   `json:"paidRemainderInCycle"`
	AuditFields
}
