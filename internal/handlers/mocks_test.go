package handlers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/handlers"
	"github.com/SscSPs/family_finance_agent/internal/platform/config"
)

const testToken = "test-session-token"

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.Member, *domain.MemberSession, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Member), args.Get(1).(*domain.MemberSession), args.Error(2)
}

func (m *MockAuthService) ListMembers(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, name, pin string) (*domain.AuthGrant, error) {
	args := m.Called(ctx, name, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthGrant), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, name, pin string) (*domain.AuthGrant, error) {
	args := m.Called(ctx, name, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthGrant), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock SessionStore ---
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Session(member domain.Member, token string) portssvc.ChatSessionSvc {
	return m.Called(member, token).Get(0).(portssvc.ChatSessionSvc)
}

func (m *MockSessionStore) Drop(memberID string) {
	m.Called(memberID)
}

var _ portssvc.ChatSessionStoreSvc = (*MockSessionStore)(nil)

// --- Mock ChatSession ---
type MockChatSession struct {
	mock.Mock
}

func (m *MockChatSession) SendMessage(ctx context.Context, content string, attachment *string, observer portssvc.MessageObserver) error {
	return m.Called(ctx, content, attachment, observer).Error(0)
}

func (m *MockChatSession) Cancel() {
	m.Called()
}

func (m *MockChatSession) ClearMessages() error {
	return m.Called().Error(0)
}

func (m *MockChatSession) Messages() []domain.Message {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Message)
}

func (m *MockChatSession) LastError() *string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*string)
}

func (m *MockChatSession) State() domain.SessionState {
	return m.Called().Get(0).(domain.SessionState)
}

func (m *MockChatSession) InFlight() bool {
	return m.Called().Bool(0)
}

var _ portssvc.ChatSessionSvc = (*MockChatSession)(nil)

// --- Mock FinanceService ---
type MockFinanceService struct {
	mock.Mock
}

func (m *MockFinanceService) ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockFinanceService) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockFinanceService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockFinanceService) GetSummary(ctx context.Context) (*domain.FinanceSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceSummary), args.Error(1)
}

func (m *MockFinanceService) GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryAmount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryAmount), args.Error(1)
}

func (m *MockFinanceService) SubscribeChanges(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.ChangeEvent), args.Error(1)
}

var _ portssvc.FinanceSvcFacade = (*MockFinanceService)(nil)

// --- Mock GatewayService ---
type MockGatewayService struct {
	mock.Mock
}

func (m *MockGatewayService) Relay(ctx context.Context, member domain.Member, req domain.ChatRequest) (io.ReadCloser, error) {
	args := m.Called(ctx, member, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

var _ portssvc.GatewaySvc = (*MockGatewayService)(nil)

// testEnv is a router wired to mocks with one authenticated member.
type testEnv struct {
	router   *gin.Engine
	auth     *MockAuthService
	sessions *MockSessionStore
	finance  *MockFinanceService
	gateway  *MockGatewayService

	member  *domain.Member
	session *domain.MemberSession
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:     new(MockAuthService),
		sessions: new(MockSessionStore),
		finance:  new(MockFinanceService),
		gateway:  new(MockGatewayService),
		member:   &domain.Member{MemberID: "member-1", Name: "Ana"},
		session: &domain.MemberSession{
			SessionID: "session-1",
			MemberID:  "member-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	env.auth.On("Authenticate", mock.Anything, testToken).Return(env.member, env.session, nil).Maybe()

	cfg := &config.Config{
		IsProduction:   true,
		APIRateLimit:   "1000-M",
		LoginRateLimit: "2-M",
	}
	services := &portssvc.ServiceContainer{
		Auth:     env.auth,
		Finance:  env.finance,
		Sessions: env.sessions,
		Gateway:  env.gateway,
	}

	env.router = gin.New()
	require.NoError(t, handlers.RegisterRoutes(env.router, cfg, services))
	return env
}

func (e *testEnv) request(method, path, body string, authed bool) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	return req
}

// streamRecorder adds the close notification gin's c.Stream asks the writer for.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func (e *testEnv) serve(req *http.Request) *streamRecorder {
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	e.router.ServeHTTP(w, req)
	return w
}
