package dto

import (
	"time"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// SendMessageRequest is one user turn. Attachment is an image data URL.
type SendMessageRequest struct {
	Content    string  `json:"content"`
	Attachment *string `json:"attachment"`
}

// MessageResponse is a chat message as shown to the member.
type MessageResponse struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	DeliveryState string    `json:"delivery_state"`
	Attachment    *string   `json:"attachment,omitempty"`
}

// ChatStateResponse is the full state of a member's chat session.
type ChatStateResponse struct {
	State     string            `json:"state"`
	InFlight  bool              `json:"in_flight"`
	LastError *string           `json:"last_error,omitempty"`
	Messages  []MessageResponse `json:"messages"`
}

// ToMessageResponse converts a domain.Message to MessageResponse DTO
func ToMessageResponse(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:            m.ID,
		Role:          string(m.Role),
		Content:       m.Content,
		CreatedAt:     m.CreatedAt,
		DeliveryState: string(m.DeliveryState),
		Attachment:    m.Attachment,
	}
}

// ChatSessionView is the read side of a chat session.
type ChatSessionView interface {
	Messages() []domain.Message
	LastError() *string
	State() domain.SessionState
	InFlight() bool
}

// ToChatStateResponse snapshots a chat session.
func ToChatStateResponse(s ChatSessionView) ChatStateResponse {
	msgs := s.Messages()
	out := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = ToMessageResponse(m)
	}
	return ChatStateResponse{
		State:     string(s.State()),
		InFlight:  s.InFlight(),
		LastError: s.LastError(),
		Messages:  out,
	}
}
