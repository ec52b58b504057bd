package dto

import "github.com/SscSPs/family_finance_agent/internal/core/domain"

// GatewayTurn is one history entry sent to the gateway.
type GatewayTurn struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content"`
}

// GatewayChatRequest is the body of the gateway chat endpoint.
type GatewayChatRequest struct {
	Messages []GatewayTurn `json:"messages" binding:"required,min=1,dive"`
	Image    *string       `json:"image,omitempty"`
}

// ToDomainChatRequest converts the request DTO to a domain.ChatRequest
func (r GatewayChatRequest) ToDomainChatRequest() domain.ChatRequest {
	turns := make([]domain.ChatTurn, len(r.Messages))
	for i, m := range r.Messages {
		turns[i] = domain.ChatTurn{Role: m.Role, Content: m.Content}
	}
	return domain.ChatRequest{Messages: turns, Image: r.Image}
}
