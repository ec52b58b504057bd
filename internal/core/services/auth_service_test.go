package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/core/services"
	"github.com/SscSPs/family_finance_agent/internal/platform/config"
	"github.com/SscSPs/family_finance_agent/internal/repositories/memory"
)

type AuthServiceTestSuite struct {
	suite.Suite
	store  *memory.Store
	tokens portssvc.TokenSvcFacade
	auth   portssvc.AuthSvcFacade
	ctx    context.Context
}

func (s *AuthServiceTestSuite) SetupTest() {
	cfg := &config.Config{JWTSecret: "test-secret", JWTIssuer: "ffa-test", JWTExpiryDuration: time.Hour}
	s.store = memory.NewStore()
	s.tokens = services.NewTokenService(cfg)
	s.auth = services.NewAuthService(s.store, s.tokens)
	s.ctx = context.Background()
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) TestRegisterThenAuthenticate() {
	grant, err := s.auth.Register(s.ctx, "  Ana ", "1234")
	s.Require().NoError(err)
	s.Equal("Ana", grant.Member.Name)
	s.NotEmpty(grant.Token)

	member, session, err := s.auth.Authenticate(s.ctx, grant.Token)
	s.Require().NoError(err)
	s.Equal(grant.Member.MemberID, member.MemberID)
	s.Equal(member.MemberID, session.MemberID)

	members, err := s.auth.ListMembers(s.ctx)
	s.Require().NoError(err)
	s.Len(members, 1)
}

func (s *AuthServiceTestSuite) TestRegister_Validation() {
	_, err := s.auth.Register(s.ctx, "Ana", "12a4")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.auth.Register(s.ctx, "   ", "1234")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.auth.Register(s.ctx, "Ana", "1234")
	s.Require().NoError(err)
	_, err = s.auth.Register(s.ctx, "Ana", "9999")
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *AuthServiceTestSuite) TestLogin() {
	_, err := s.auth.Register(s.ctx, "Bia", "0420")
	s.Require().NoError(err)

	grant, err := s.auth.Login(s.ctx, "Bia", "0420")
	s.Require().NoError(err)
	s.Equal("Bia", grant.Member.Name)

	_, err = s.auth.Login(s.ctx, "Bia", "0000")
	s.ErrorIs(err, services.ErrInvalidCredentials)
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = s.auth.Login(s.ctx, "Carla", "0420")
	s.ErrorIs(err, services.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogoutRevokesSession() {
	grant, err := s.auth.Register(s.ctx, "Ana", "1234")
	s.Require().NoError(err)
	_, session, err := s.auth.Authenticate(s.ctx, grant.Token)
	s.Require().NoError(err)

	s.Require().NoError(s.auth.Logout(s.ctx, session.SessionID))
	s.Require().NoError(s.auth.Logout(s.ctx, "unknown-session"))

	_, _, err = s.auth.Authenticate(s.ctx, grant.Token)
	s.ErrorIs(err, services.ErrSessionInactive)
}

func (s *AuthServiceTestSuite) TestAuthenticate_RejectsForeignTokens() {
	other := services.NewTokenService(&config.Config{JWTSecret: "other", JWTIssuer: "ffa-test", JWTExpiryDuration: time.Hour})
	grant, err := services.NewAuthService(s.store, other).Register(s.ctx, "Ana", "1234")
	s.Require().NoError(err)

	_, _, err = s.auth.Authenticate(s.ctx, grant.Token)
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	_, _, err = s.auth.Authenticate(s.ctx, "garbage")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
}
