package services

import (
	"context"
	"io"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// ModelUpstream streams a completion from a model provider. The body is an event
// stream of delta frames terminated by the done sentinel. Provider failures carry
// the provider's HTTP status through an HTTPStatus() int method.
type ModelUpstream interface {
	Stream(ctx context.Context, completion domain.Completion) (io.ReadCloser, error)
}

// GatewaySvc turns a member's chat request into an upstream completion.
type GatewaySvc interface {
	Relay(ctx context.Context, member domain.Member, req domain.ChatRequest) (io.ReadCloser, error)
}
