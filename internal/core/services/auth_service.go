package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/utils"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid name or PIN: %w", apperrors.ErrUnauthorized)
	ErrInvalidPIN         = fmt.Errorf("PIN must be exactly 4 digits: %w", apperrors.ErrValidation)
	ErrNameRequired       = fmt.Errorf("name is required: %w", apperrors.ErrValidation)
	ErrSessionInactive    = fmt.Errorf("session revoked or expired: %w", apperrors.ErrUnauthorized)
)

// authService manages the family member registry and its login sessions.
type authService struct {
	BaseService
	memberRepo portsrepo.MemberRepositoryFacade
	tokens     portssvc.TokenSvcFacade
}

// NewAuthService creates a new AuthService.
func NewAuthService(memberRepo portsrepo.MemberRepositoryFacade, tokens portssvc.TokenSvcFacade, opts ...BaseOption) portssvc.AuthSvcFacade {
	return &authService{
		BaseService: newBaseService(opts...),
		memberRepo:  memberRepo,
		tokens:      tokens,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Register(ctx context.Context, name, pin string) (*domain.AuthGrant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !utils.ValidPIN(pin) {
		return nil, ErrInvalidPIN
	}

	pinHash, err := utils.HashPIN(pin)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash PIN")
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	now := s.now()
	member := domain.Member{
		MemberID:   uuid.NewString(),
		Name:       name,
		Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	session, err := s.newSession(member.MemberID)
	if err != nil {
		return nil, err
	}

	if err := s.memberRepo.RegisterMember(ctx, member, pinHash, session); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("member %q: %w", name, apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to register member", slog.String("name", name))
		return nil, fmt.Errorf("failed to register member: %w", err)
	}

	s.LogInfo(ctx, "Member registered", slog.String("member_id", member.MemberID))
	return s.grant(ctx, member, session)
}

func (s *authService) Login(ctx context.Context, name, pin string) (*domain.AuthGrant, error) {
	name = strings.TrimSpace(name)
	if name == "" || pin == "" {
		return nil, ErrInvalidCredentials
	}

	member, pinHash, err := s.memberRepo.FindMemberCredentials(ctx, name)
	if errors.Is(err, apperrors.ErrNotFound) {
		s.LogInfo(ctx, "Login for unknown member", slog.String("name", name))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if !utils.CheckPINHash(pin, pinHash) {
		s.LogInfo(ctx, "Login with wrong PIN", slog.String("member_id", member.MemberID))
		return nil, ErrInvalidCredentials
	}

	session, err := s.newSession(member.MemberID)
	if err != nil {
		return nil, err
	}
	if err := s.memberRepo.SaveSession(ctx, session); err != nil {
		s.LogError(ctx, err, "Failed to save session", slog.String("member_id", member.MemberID))
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.LogInfo(ctx, "Member logged in", slog.String("member_id", member.MemberID))
	return s.grant(ctx, *member, session)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Member, *domain.MemberSession, error) {
	memberID, sessionID, err := s.tokens.ParseSessionToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.memberRepo.FindSessionByID(ctx, sessionID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, ErrSessionInactive
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.MemberID != memberID || !session.IsActive(s.now()) {
		return nil, nil, ErrSessionInactive
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, ErrSessionInactive
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load member: %w", err)
	}
	return member, session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	err := s.memberRepo.RevokeSession(ctx, sessionID, s.now())
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to revoke session")
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *authService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	members, err := s.memberRepo.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *authService) newSession(memberID string) (domain.MemberSession, error) {
	id, err := utils.NewSessionID()
	if err != nil {
		return domain.MemberSession{}, err
	}
	now := s.now()
	return domain.MemberSession{
		SessionID: id,
		MemberID:  memberID,
		ExpiresAt: s.tokens.SessionExpiry(now),
		CreatedAt: now,
	}, nil
}

func (s *authService) grant(ctx context.Context, member domain.Member, session domain.MemberSession) (*domain.AuthGrant, error) {
	token, err := s.tokens.GenerateSessionToken(ctx, &member, &session)
	if err != nil {
		s.LogError(ctx, err, "Failed to issue session token", slog.String("member_id", member.MemberID))
		return nil, err
	}
	return &domain.AuthGrant{Member: member, Token: token, ExpiresAt: session.ExpiresAt}, nil
}
