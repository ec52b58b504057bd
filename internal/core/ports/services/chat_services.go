package services

import (
	"context"
	"io"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// ActionExecutorSvc applies the actions extracted from an agent reply.
type ActionExecutorSvc interface {
	// Execute runs actions in order on behalf of member. Failures are logged per
	// action and never returned.
	Execute(ctx context.Context, member domain.Member, actions []domain.StructuredAction)
}

// ChatStreamer opens a streaming completion against the model gateway.
// The returned body is an event stream of delta frames.
type ChatStreamer interface {
	Stream(ctx context.Context, token string, req domain.ChatRequest) (io.ReadCloser, error)
}

// MessageObserver receives a snapshot of the agent message after every change.
type MessageObserver func(msg domain.Message)

// ChatSessionSvc is the conversation of one member with the agent.
type ChatSessionSvc interface {
	// SendMessage runs one chat turn. It returns ErrSendInProgress when a turn
	// is already running and ErrUnauthenticated when the session has no credentials.
	SendMessage(ctx context.Context, content string, attachment *string, observer MessageObserver) error

	// Cancel aborts the running turn, if any.
	Cancel()

	// ClearMessages empties the history. Rejected while a turn is running.
	ClearMessages() error

	Messages() []domain.Message
	LastError() *string
	State() domain.SessionState
	InFlight() bool
}

// ChatSessionStoreSvc keeps one chat session per member.
type ChatSessionStoreSvc interface {
	// Session returns the member's session, creating it when needed, with the
	// given bearer token as its gateway credential.
	Session(member domain.Member, token string) ChatSessionSvc

	// Drop forgets the member's session, cancelling any running turn.
	Drop(memberID string)
}
