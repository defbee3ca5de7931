package dto

import (
	"time"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/utils"
)

// RecordExpenseRequest defines the data needed to record an expense.
// Amount is a decimal string like "123.45"; it is converted to integer minor
// units at this boundary. Either PayerName names the member who paid, or
// PaidFromFund marks the expense as paid by the shared public fund.
type RecordExpenseRequest struct {
	Description  string `json:"description" binding:"required,min=1,max=255"`
	Amount       string `json:"amount" binding:"required"`
	PayerName    string `json:"payerName" binding:"required_without=PaidFromFund"`
	PaidFromFund bool   `json:"paidFromFund"`
	CategoryName string `json:"categoryName" binding:"required"`
}

// RecordDepositRequest defines the data needed to record a deposit. Either
// MemberName names the receiving member, or ToFund directs the deposit to
// the public fund.
type RecordDepositRequest struct {
	Description string `json:"description" binding:"max=255"`
	Amount      string `json:"amount" binding:"required"`
	MemberName  string `json:"memberName" binding:"required_without=ToFund"`
	ToFund      bool   `json:"toFund"`
}

// RecordRefundRequest defines the data needed to record a refund to a member.
type RecordRefundRequest struct {
	Description string `json:"description" binding:"max=255"`
	Amount      string `json:"amount" binding:"required"`
	MemberName  string `json:"memberName" binding:"required"`
}

// EntryResponse defines the data returned for one ledger entry.
type EntryResponse struct {
	EntryID     string  `json:"entryID"`
	Direction   string  `json:"direction"`
	Participant string  `json:"participant"`
	MemberID    *string `json:"memberID,omitempty"`
	Amount      string  `json:"amount"`
	Memo        string  `json:"memo,omitempty"`
}

// BatchResponse defines the data returned for a ledger batch header.
type BatchResponse struct {
	BatchID     string    `json:"batchID"`
	PeriodID    string    `json:"periodID"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"categoryID,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// BatchDetailResponse defines the data returned for one stored batch read
// back from history.
type BatchDetailResponse struct {
	Batch   BatchResponse   `json:"batch"`
	Entries []EntryResponse `json:"entries"`
}

// RecordReceiptResponse is returned after an event has been recorded.
type RecordReceiptResponse struct {
	Batch        BatchResponse   `json:"batch"`
	Entries      []EntryResponse `json:"entries"`
	Confirmation string          `json:"confirmation"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:     e.EntryID,
		Direction:   string(e.Direction),
		Participant: string(e.Participant),
		MemberID:    e.MemberID,
		Amount:      utils.FormatMinorUnits(e.Amount),
		Memo:        e.Memo,
	}
}

// ToEntryResponses converts a slice of domain.LedgerEntry to []EntryResponse.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}

// ToBatchResponse converts a domain.LedgerBatch to BatchResponse DTO.
func ToBatchResponse(b *domain.LedgerBatch) BatchResponse {
	return BatchResponse{
		BatchID:     b.BatchID,
		PeriodID:    b.PeriodID,
		Kind:        string(b.Kind),
		Description: b.Description,
		CategoryID:  b.CategoryID,
		OccurredAt:  b.OccurredAt,
	}
}

// ToBatchDetailResponse converts a domain.BatchDetail to BatchDetailResponse DTO.
func ToBatchDetailResponse(d *domain.BatchDetail) BatchDetailResponse {
	return BatchDetailResponse{
		Batch:   ToBatchResponse(&d.Batch),
		Entries: ToEntryResponses(d.Entries),
	}
}

// ToBatchResponses converts a slice of domain.LedgerBatch to []BatchResponse.
func ToBatchResponses(batches []domain.LedgerBatch) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for i, b := range batches {
		responses[i] = ToBatchResponse(&b)
	}
	return responses
}

// ToRecordReceiptResponse converts a domain.RecordReceipt to RecordReceiptResponse DTO.
func ToRecordReceiptResponse(r *domain.RecordReceipt) RecordReceiptResponse {
	return RecordReceiptResponse{
		Batch:        ToBatchResponse(&r.Batch),
		Entries:      ToEntryResponses(r.Entries),
		Confirmation: r.Confirmation,
	}
}
