package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/utils/actionblock"
	"github.com/SscSPs/family_finance_agent/internal/utils/sse"
)

// User-facing failure texts.
const (
	MsgTooManyRequests = "Muitas requisições. Aguarde um momento e tente novamente."
	MsgUsageLimit      = "Limite de uso atingido. Adicione créditos para continuar."
	MsgSessionExpired  = "Sua sessão expirou. Faça login novamente."
	MsgGenericFailure  = "Erro ao processar sua mensagem. Tente novamente."

	errorPrefix = "Ops! "
)

// ChatSessionConfig tunes the stream handling of a chat session.
type ChatSessionConfig struct {
	StreamMaxPendingBytes int
	StreamMaxRetries      int
	// Extractor defaults to actionblock.FenceExtractor.
	Extractor actionblock.Extractor
}

// chatSession drives one member's conversation: it streams the agent reply,
// publishes the reply without its command blocks, then executes the commands.
type chatSession struct {
	BaseService
	streamer  portssvc.ChatStreamer
	executor  portssvc.ActionExecutorSvc
	extractor actionblock.Extractor
	decOpts   []sse.Option

	mu         sync.Mutex
	member     domain.Member
	token      string
	messages   []domain.Message
	lastError  *string
	state      domain.SessionState
	inFlight   bool
	cancel     context.CancelFunc
	lastActive time.Time
}

// NewChatSession creates a session for member using token as gateway credential.
func NewChatSession(member domain.Member, token string, streamer portssvc.ChatStreamer, executor portssvc.ActionExecutorSvc, cfg ChatSessionConfig, opts ...BaseOption) portssvc.ChatSessionSvc {
	return newChatSession(member, token, streamer, executor, cfg, opts...)
}

func newChatSession(member domain.Member, token string, streamer portssvc.ChatStreamer, executor portssvc.ActionExecutorSvc, cfg ChatSessionConfig, opts ...BaseOption) *chatSession {
	extractor := cfg.Extractor
	if extractor == nil {
		extractor = actionblock.NewFenceExtractor()
	}
	var decOpts []sse.Option
	if cfg.StreamMaxPendingBytes > 0 {
		decOpts = append(decOpts, sse.WithMaxPendingBytes(cfg.StreamMaxPendingBytes))
	}
	if cfg.StreamMaxRetries > 0 {
		decOpts = append(decOpts, sse.WithMaxRetries(cfg.StreamMaxRetries))
	}

	s := &chatSession{
		BaseService: newBaseService(opts...),
		streamer:    streamer,
		executor:    executor,
		extractor:   extractor,
		decOpts:     decOpts,
		member:      member,
		token:       token,
		state:       domain.StateIdle,
	}
	s.lastActive = s.now()
	return s
}

var _ portssvc.ChatSessionSvc = (*chatSession)(nil)

// SendMessage runs one chat turn. See portssvc.ChatSessionSvc.
func (s *chatSession) SendMessage(ctx context.Context, content string, attachment *string, observer portssvc.MessageObserver) error {
	notify := func(msg domain.Message) {
		if observer != nil {
			observer(msg)
		}
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return apperrors.ErrSendInProgress
	}
	s.inFlight = true
	s.lastError = nil
	s.lastActive = s.now()
	s.state = domain.StateSending

	if s.token == "" {
		failed := s.newMessageLocked(domain.RoleAgent, errorPrefix+MsgSessionExpired, domain.DeliveryFailed, nil)
		s.messages = append(s.messages, failed)
		text := MsgSessionExpired
		s.lastError = &text
		s.state = domain.StateIdle
		s.inFlight = false
		s.mu.Unlock()
		notify(failed)
		return apperrors.ErrUnauthenticated
	}

	member, token := s.member, s.token
	req := domain.ChatRequest{Messages: s.historyLocked(), Image: attachment}
	req.Messages = append(req.Messages, domain.ChatTurn{Role: "user", Content: content})

	s.messages = append(s.messages, s.newMessageLocked(domain.RoleUser, content, domain.DeliveryDelivered, attachment))
	placeholder := s.newMessageLocked(domain.RoleAgent, "", domain.DeliveryPending, nil)
	s.messages = append(s.messages, placeholder)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.inFlight = false
		s.cancel = nil
		s.lastActive = s.now()
		s.state = domain.StateIdle
		s.mu.Unlock()
	}()

	logger := s.GetLogger(ctx).With(slog.String("member_id", member.MemberID), slog.String("message_id", placeholder.ID))

	body, err := s.streamer.Stream(runCtx, token, req)
	if err != nil {
		if runCtx.Err() != nil {
			s.finishCancelled(placeholder.ID, notify)
			return nil
		}
		logger.Error("Failed to open chat stream", slog.String("error", err.Error()))
		return s.fail(placeholder.ID, err, notify)
	}
	defer body.Close()

	s.setState(domain.StateStreaming)

	dec := sse.NewDecoder(body, append([]sse.Option{sse.WithLogger(logger)}, s.decOpts...)...)
	var raw strings.Builder
	for {
		chunk, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if runCtx.Err() != nil {
				s.finishCancelled(placeholder.ID, notify)
				return nil
			}
			logger.Error("Chat stream interrupted", slog.String("error", err.Error()))
			return s.fail(placeholder.ID, err, notify)
		}

		delta := chunk.DeltaContent()
		if delta == "" {
			continue
		}
		raw.WriteString(delta)
		clean := s.extractor.Extract(raw.String()).CleanText
		if msg, ok := s.updateMessage(placeholder.ID, func(m *domain.Message) { m.Content = clean }); ok {
			notify(msg)
		}
	}

	if runCtx.Err() != nil {
		s.finishCancelled(placeholder.ID, notify)
		return nil
	}

	s.setState(domain.StateFinalizing)
	result := s.extractor.Extract(raw.String())
	if msg, ok := s.updateMessage(placeholder.ID, func(m *domain.Message) {
		m.Content = result.CleanText
		m.DeliveryState = domain.DeliveryDelivered
	}); ok {
		notify(msg)
	}

	if len(result.Actions) > 0 {
		logger.Info("Executing agent actions", slog.Int("count", len(result.Actions)))
		s.executor.Execute(runCtx, member, result.Actions)
	}
	return nil
}

// finishCancelled keeps whatever was streamed and marks it delivered.
func (s *chatSession) finishCancelled(placeholderID string, notify portssvc.MessageObserver) {
	if msg, ok := s.updateMessage(placeholderID, func(m *domain.Message) {
		m.DeliveryState = domain.DeliveryDelivered
	}); ok {
		notify(msg)
	}
}

// fail records a transport failure as a failed agent message.
func (s *chatSession) fail(placeholderID string, cause error, notify portssvc.MessageObserver) error {
	text := userFacingError(cause)

	s.mu.Lock()
	s.lastError = &text
	s.state = domain.StateFailed

	var failed domain.Message
	idx := s.indexLocked(placeholderID)
	switch {
	case idx < 0:
		failed = s.newMessageLocked(domain.RoleAgent, errorPrefix+text, domain.DeliveryFailed, nil)
		s.messages = append(s.messages, failed)
	case s.messages[idx].Content == "":
		s.messages[idx].Content = errorPrefix + text
		s.messages[idx].DeliveryState = domain.DeliveryFailed
		failed = s.messages[idx]
	default:
		s.messages[idx].DeliveryState = domain.DeliveryFailed
		failed = s.newMessageLocked(domain.RoleAgent, errorPrefix+text, domain.DeliveryFailed, nil)
		s.messages = append(s.messages, failed)
	}
	s.mu.Unlock()

	notify(failed)
	return fmt.Errorf("chat turn failed: %w", cause)
}

type statusCoder interface {
	HTTPStatus() int
}

func userFacingError(err error) string {
	var sc statusCoder
	if !errors.As(err, &sc) {
		return MsgGenericFailure
	}
	switch sc.HTTPStatus() {
	case http.StatusTooManyRequests:
		return MsgTooManyRequests
	case http.StatusPaymentRequired:
		return MsgUsageLimit
	case http.StatusUnauthorized:
		return MsgSessionExpired
	default:
		return MsgGenericFailure
	}
}

// Cancel aborts the running turn. It is a no-op when nothing is running.
func (s *chatSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *chatSession) ClearMessages() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight {
		return apperrors.ErrSendInProgress
	}
	s.messages = nil
	s.lastError = nil
	s.state = domain.StateIdle
	return nil
}

func (s *chatSession) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages...)
}

func (s *chatSession) LastError() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastError == nil {
		return nil
	}
	text := *s.lastError
	return &text
}

func (s *chatSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *chatSession) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// setCredentials replaces the member snapshot and gateway token.
func (s *chatSession) setCredentials(member domain.Member, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.member = member
	s.token = token
}

// idleSince reports when the session last started or finished a turn, and whether a turn is running.
func (s *chatSession) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, s.inFlight
}

func (s *chatSession) setState(state domain.SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *chatSession) updateMessage(id string, mutate func(*domain.Message)) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Message{}, false
	}
	mutate(&s.messages[idx])
	return s.messages[idx], true
}

func (s *chatSession) indexLocked(id string) int {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// historyLocked maps prior turns to gateway roles. Failed messages are not sent.
func (s *chatSession) historyLocked() []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(s.messages)+1)
	for _, m := range s.messages {
		if m.DeliveryState == domain.DeliveryFailed {
			continue
		}
		role := "assistant"
		if m.Role == domain.RoleUser {
			role = "user"
		}
		turns = append(turns, domain.ChatTurn{Role: role, Content: m.Content})
	}
	return turns
}

func (s *chatSession) newMessageLocked(role domain.MessageRole, content string, state domain.DeliveryState, attachment *string) domain.Message {
	return domain.Message{
		ID:            uuid.Must(uuid.NewV7()).String(),
		Role:          role,
		Content:       content,
		CreatedAt:     s.now(),
		DeliveryState: state,
		Attachment:    attachment,
	}
}
