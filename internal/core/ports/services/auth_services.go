package services

import (
	"context"
	"time"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// TokenSvcFacade issues and parses the JWT session credential.
type TokenSvcFacade interface {
	// GenerateSessionToken signs a token whose jti is the session ID.
	GenerateSessionToken(ctx context.Context, member *domain.Member, session *domain.MemberSession) (string, error)

	// ParseSessionToken validates signature, issuer and expiry, returning member and session IDs.
	ParseSessionToken(ctx context.Context, token string) (memberID string, sessionID string, err error)

	// SessionExpiry returns the expiry a session created at now should get.
	SessionExpiry(now time.Time) time.Time
}

// AuthReaderSvc defines read operations on the member registry
type AuthReaderSvc interface {
	// Authenticate resolves a bearer token to its member and active session.
	Authenticate(ctx context.Context, token string) (*domain.Member, *domain.MemberSession, error)

	ListMembers(ctx context.Context) ([]domain.Member, error)
}

// AuthWriterSvc defines the registry's write operations
type AuthWriterSvc interface {
	// Register creates a member with a 4-digit PIN and logs them in.
	Register(ctx context.Context, name, pin string) (*domain.AuthGrant, error)

	// Login checks the PIN and opens a new session.
	Login(ctx context.Context, name, pin string) (*domain.AuthGrant, error)

	// Logout revokes the session.
	Logout(ctx context.Context, sessionID string) error
}

// AuthSvcFacade combines the member registry interfaces
type AuthSvcFacade interface {
	AuthReaderSvc
	AuthWriterSvc
}
