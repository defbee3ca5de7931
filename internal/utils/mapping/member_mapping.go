package mapping

import (
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/models"
)

// ToModelMember converts a domain Member to a model Member
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:             d.MemberID,
		Name:                 d.Name,
		IsActive:             d.IsActive,
		RosterSeq:            d.RosterSeq,
		PaidRemainderInCycle: d.PaidRemainderInCycle,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMember converts a model Member to a domain Member
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:             m.MemberID,
		Name:                 m.Name,
		IsActive:             m.IsActive,
		RosterSeq:            m.RosterSeq,
		PaidRemainderInCycle: m.PaidRemainderInCycle,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMemberSlice converts a slice of model Members to domain Members
func ToDomainMemberSlice(ms []models.Member) []domain.Member {
	ds := make([]domain.Member, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMember(m)
	}
	return ds
}
