package domain

// ParticipantKind identifies which side of the ledger an entry touches.
// The public fund and the external world are distinct participants rather
// than magic member rows, so member-facing listings can never include them
// by accident.
type ParticipantKind string

const (
	// ParticipantMember is a regular group member, identified by MemberID.
	ParticipantMember ParticipantKind = "MEMBER"
	// ParticipantFund is the shared public fund that can subsidize expenses.
	ParticipantFund ParticipantKind = "FUND"
	// ParticipantExternal represents money entering or leaving the group
	// (the counter-side of deposits, refunds and outside payments).
	ParticipantExternal ParticipantKind = "EXTERNAL"
)
