package dto

import (
	"time"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// RegisterRequest creates a family member.
type RegisterRequest struct {
	Name string `json:"name" binding:"required,max=60"`
	PIN  string `json:"pin" binding:"required"`
}

// LoginRequest authenticates a family member.
type LoginRequest struct {
	Name string `json:"name" binding:"required"`
	PIN  string `json:"pin" binding:"required"`
}

// MemberResponse is the public view of a member. The PIN hash never leaves the server.
type MemberResponse struct {
	MemberID  string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Member    MemberResponse `json:"member"`
}

// VerifyResponse reports whether the presented session is valid.
type VerifyResponse struct {
	Valid  bool           `json:"valid"`
	Member MemberResponse `json:"member"`
}

// ListMembersResponse wraps the list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:  m.MemberID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

// ToAuthResponse converts a domain.AuthGrant to AuthResponse DTO
func ToAuthResponse(g *domain.AuthGrant) AuthResponse {
	return AuthResponse{
		Token:     g.Token,
		ExpiresAt: g.ExpiresAt,
		Member:    ToMemberResponse(&g.Member),
	}
}

// ToListMembersResponse converts members to ListMembersResponse DTO
func ToListMembersResponse(members []domain.Member) ListMembersResponse {
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = ToMemberResponse(&members[i])
	}
	return ListMembersResponse{Members: out}
}
