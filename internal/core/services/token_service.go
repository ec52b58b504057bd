package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/platform/config"
	"github.com/SscSPs/family_finance_agent/internal/utils"
)

// tokenService signs and verifies the JWT session credential.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

func (s *tokenService) GenerateSessionToken(_ context.Context, member *domain.Member, session *domain.MemberSession) (string, error) {
	token, err := utils.GenerateSessionJWT(member.MemberID, session.SessionID, s.cfg.JWTSecret, s.cfg.JWTIssuer, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

func (s *tokenService) ParseSessionToken(_ context.Context, token string) (string, string, error) {
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return claims.Subject, claims.ID, nil
}

func (s *tokenService) SessionExpiry(now time.Time) time.Time {
	return now.Add(s.cfg.JWTExpiryDuration)
}
