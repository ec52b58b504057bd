package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// MemberReader defines read operations for family members
type MemberReader interface {
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// FindMemberCredentials returns the member and its PIN hash.
	FindMemberCredentials(ctx context.Context, name string) (*domain.Member, string, error)

	// ListMembers returns members by creation order.
	ListMembers(ctx context.Context) ([]domain.Member, error)
}

// MemberWriter defines write operations for family members
type MemberWriter interface {
	// RegisterMember inserts the member and its first session atomically.
	// A name that already exists yields ErrDuplicate.
	RegisterMember(ctx context.Context, member domain.Member, pinHash string, session domain.MemberSession) error
}

// MemberSessionRepository persists login sessions.
type MemberSessionRepository interface {
	SaveSession(ctx context.Context, session domain.MemberSession) error
	FindSessionByID(ctx context.Context, sessionID string) (*domain.MemberSession, error)
	RevokeSession(ctx context.Context, sessionID string, at time.Time) error
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
	MemberSessionRepository
}
