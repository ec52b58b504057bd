package domain

import "time"

// MessageRole identifies who authored a chat message.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleAgent MessageRole = "agent"
)

// DeliveryState tracks an individual message through a chat turn.
type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryDelivered DeliveryState = "delivered"
	DeliveryFailed    DeliveryState = "failed"
)

// Message is one chat turn entry. Agent message content is rewritten while streaming.
type Message struct {
	ID            string        `json:"id"`
	Role          MessageRole   `json:"role"`
	Content       string        `json:"content"`
	CreatedAt     time.Time     `json:"createdAt"`
	DeliveryState DeliveryState `json:"deliveryState"`
	Attachment    *string       `json:"attachment,omitempty"`
}

// SessionState is the lifecycle phase of a chat session's current send.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateSending    SessionState = "sending"
	StateStreaming  SessionState = "streaming"
	StateFinalizing SessionState = "finalizing"
	StateFailed     SessionState = "failed"
)

// ChatTurn is one entry of the history sent to the model gateway.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a gateway chat call. Image, when set, is a data URL
// attached to the last user turn.
type ChatRequest struct {
	Messages []ChatTurn `json:"messages"`
	Image    *string    `json:"image,omitempty"`
}

// Completion is a fully assembled model request: the system prompt followed by
// the conversation. Image, when set, belongs to the last user turn.
type Completion struct {
	System string
	Turns  []ChatTurn
	Image  *string
}

// DefaultImagePrompt stands in for an empty user message that only carries an image.
const DefaultImagePrompt = "Analise este comprovante e extraia os dados para registro."
