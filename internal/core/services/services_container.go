package services

import (
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// streamer is the outbound gateway client used by chat sessions; upstream is the
// model provider behind the gateway endpoint.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, streamer portssvc.ChatStreamer, upstream portssvc.ModelUpstream) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Token = NewTokenService(cfg)
	container.Auth = NewAuthService(repos.MemberRepo, container.Token)
	container.Finance = NewFinanceService(repos)
	container.Executor = NewActionExecutor(repos)
	container.Sessions = NewSessionStore(streamer, container.Executor, ChatSessionConfig{
		StreamMaxPendingBytes: cfg.StreamMaxPendingBytes,
		StreamMaxRetries:      cfg.StreamMaxRetries,
	}, cfg.ChatSessionTTL)
	container.Gateway = NewGatewayService(container.Finance, upstream)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.FinanceSvcFacade    = (*financeService)(nil)
	_ portssvc.AuthSvcFacade       = (*authService)(nil)
	_ portssvc.ChatSessionStoreSvc = (*SessionStore)(nil)
)
