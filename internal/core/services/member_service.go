package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/divvyhq/divvy-backend/internal/apperrors"
	"github.com/divvyhq/divvy-backend/internal/core/domain"
	portsrepo "github.com/divvyhq/divvy-backend/internal/core/ports/repositories"
	portssvc "github.com/divvyhq/divvy-backend/internal/core/ports/services"
	"github.com/divvyhq/divvy-backend/internal/dto"
	"github.com/divvyhq/divvy-backend/internal/middleware"
)

// memberService manages the group roster.
type memberService struct {
	memberRepo portsrepo.MemberRepositoryWithTx
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo portsrepo.MemberRepositoryWithTx) portssvc.MemberSvcFacade {
	return &memberService{memberRepo: memberRepo}
}

// Ensure memberService implements the portssvc.MemberSvcFacade interface
var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// CreateMember adds a new member. New members join at the end of the roster
// with a clear rotation flag, so they absorb a remainder no earlier than
// anyone already mid-cycle.
func (s *memberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorUserID string) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: member name must not be empty", apperrors.ErrValidation)
	}

	existing, err := s.memberRepo.FindMemberByName(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing member: %w", err)
	}
	if existing != nil {
		if existing.IsActive {
			return nil, fmt.Errorf("%w: member %q already exists", apperrors.ErrDuplicate, name)
		}
		return nil, fmt.Errorf("%w: member %q already exists but is inactive, reactivate instead", apperrors.ErrDuplicate, name)
	}

	now := time.Now()
	member := domain.Member{
		MemberID:             uuid.NewString(),
		Name:                 name,
		IsActive:             true,
		PaidRemainderInCycle: false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	saved, err := s.memberRepo.SaveMember(ctx, member)
	if err != nil {
		return nil, err
	}

	logger.Info("Member created", slog.String("member_id", saved.MemberID), slog.String("name", saved.Name))
	return saved, nil
}

// GetMemberByID retrieves a member by ID.
func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByID(ctx, memberID)
}

// ListMembers retrieves members in roster order.
func (s *memberService) ListMembers(ctx context.Context, activeOnly bool) ([]domain.Member, error) {
	return s.memberRepo.ListMembers(ctx, activeOnly)
}

// DeactivateMember removes a member from the active roster. Their ledger
// history and settled balances are untouched.
func (s *memberService) DeactivateMember(ctx context.Context, memberID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.memberRepo.SetMemberActive(ctx, memberID, false, requestingUserID, time.Now()); err != nil {
		return err
	}
	logger.Info("Member deactivated", slog.String("member_id", memberID))
	return nil
}

// ReactivateMember returns a previously removed member to the roster.
func (s *memberService) ReactivateMember(ctx context.Context, memberID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.memberRepo.SetMemberActive(ctx, memberID, true, requestingUserID, time.Now()); err != nil {
		return err
	}
	logger.Info("Member reactivated", slog.String("member_id", memberID))
	return nil
}
