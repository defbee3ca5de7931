package mapping

import (
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/models"
)

// ToModelLedgerBatch converts a domain LedgerBatch to a model LedgerBatch
func ToModelLedgerBatch(d domain.LedgerBatch) models.LedgerBatch {
	return models.LedgerBatch{
		BatchID:     d.BatchID,
		PeriodID:    d.PeriodID,
		Kind:        models.BatchKind(d.Kind),
		Description: d.Description,
		CategoryID:  d.CategoryID,
		OccurredAt:  d.OccurredAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerBatch converts a model LedgerBatch to a domain LedgerBatch
func ToDomainLedgerBatch(m models.LedgerBatch) domain.LedgerBatch {
	return domain.LedgerBatch{
		BatchID:     m.BatchID,
		PeriodID:    m.PeriodID,
		Kind:        domain.BatchKind(m.Kind),
		Description: m.Description,
		CategoryID:  m.CategoryID,
		OccurredAt:  m.OccurredAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     d.EntryID,
		BatchID:     d.BatchID,
		Direction:   models.EntryDirection(d.Direction),
		Participant: models.ParticipantKind(d.Participant),
		MemberID:    d.MemberID,
		Amount:      d.Amount,
		Memo:        d.Memo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:     m.EntryID,
		BatchID:     m.BatchID,
		Direction:   domain.EntryDirection(m.Direction),
		Participant: domain.ParticipantKind(m.Participant),
		MemberID:    m.MemberID,
		Amount:      m.Amount,
		Memo:        m.Memo,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
