package dto

import (
	"github.com/divvyhq/divvy-backend/internal/core/domain"
)

// CreateMemberRequest defines the data needed to add a member.
type CreateMemberRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID string `json:"memberID"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// ListMembersResponse wraps the list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID: m.MemberID,
		Name:     m.Name,
		IsActive: m.IsActive,
	}
}

// ToListMembersResponse converts a slice of domain.Member to ListMembersResponse DTO.
func ToListMembersResponse(members []domain.Member) ListMembersResponse {
	responses := make([]MemberResponse, len(members))
	for i, m := range members {
		responses[i] = ToMemberResponse(&m)
	}
	return ListMembersResponse{Members: responses}
}
