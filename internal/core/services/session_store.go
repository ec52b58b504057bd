package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
)

// DefaultChatSessionTTL is how long an idle chat session is kept.
const DefaultChatSessionTTL = 2 * time.Hour

// SessionStore keeps one chat session per member and evicts idle ones.
type SessionStore struct {
	BaseService
	streamer portssvc.ChatStreamer
	executor portssvc.ActionExecutorSvc
	cfg      ChatSessionConfig
	ttl      time.Duration
	opts     []BaseOption

	mu       sync.Mutex
	sessions map[string]*chatSession
}

// NewSessionStore creates a store. A non-positive ttl uses DefaultChatSessionTTL.
func NewSessionStore(streamer portssvc.ChatStreamer, executor portssvc.ActionExecutorSvc, cfg ChatSessionConfig, ttl time.Duration, opts ...BaseOption) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultChatSessionTTL
	}
	return &SessionStore{
		BaseService: newBaseService(opts...),
		streamer:    streamer,
		executor:    executor,
		cfg:         cfg,
		ttl:         ttl,
		opts:        opts,
		sessions:    make(map[string]*chatSession),
	}
}

var _ portssvc.ChatSessionStoreSvc = (*SessionStore)(nil)

func (s *SessionStore) Session(member domain.Member, token string) portssvc.ChatSessionSvc {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[member.MemberID]
	if !ok {
		sess = newChatSession(member, token, s.streamer, s.executor, s.cfg, s.opts...)
		s.sessions[member.MemberID] = sess
		return sess
	}
	sess.setCredentials(member, token)
	return sess
}

func (s *SessionStore) Drop(memberID string) {
	s.mu.Lock()
	sess, ok := s.sessions[memberID]
	delete(s.sessions, memberID)
	s.mu.Unlock()

	if ok {
		sess.Cancel()
	}
}

// EvictIdle removes sessions idle for longer than the TTL and returns how many were removed.
// Sessions with a running turn are kept.
func (s *SessionStore) EvictIdle() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		since, busy := sess.idleSince()
		if busy || now.Sub(since) < s.ttl {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run evicts idle sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				s.LogDebug(ctx, "Evicted idle chat sessions", slog.Int("count", n))
			}
		}
	}
}
