package services

import (
	"context"

	"github.com/divvyhq/divvy-backend/internal/core/domain"
	"github.com/divvyhq/divvy-backend/internal/dto"
)

// MemberReaderSvc defines read operations for member data
type MemberReaderSvc interface {
	// GetMemberByID retrieves a member by ID.
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// ListMembers retrieves members in roster order, optionally only active ones.
	ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error)
}

// MemberWriterSvc defines write operations for member data
type MemberWriterSvc interface {
	// CreateMember adds a new member to the roster.
	CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorUserID string) (*domain.Member, error)

	// DeactivateMember removes a member from the active roster; their
	// ledger history is kept.
	DeactivateMember(ctx context.Context, memberID string, requestingUserID string) error

	// ReactivateMember returns a previously deactivated member to the roster.
	ReactivateMember(ctx context.Context, memberID string, requestingUserID string) error
}

// MemberSvcFacade combines all member-related service interfaces
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
}
