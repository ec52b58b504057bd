package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ActionKind names a command the agent can embed in its reply.
type ActionKind string

const (
	ActionAddTransaction    ActionKind = "add_transaction"
	ActionAddGoal           ActionKind = "add_goal"
	ActionAddCategory       ActionKind = "add_category"
	ActionDeleteTransaction ActionKind = "delete_transaction"
	ActionDeleteGoal        ActionKind = "delete_goal"
)

// StructuredAction is a parsed command block. Data stays raw until the executor
// decodes it into the payload matching Kind.
type StructuredAction struct {
	Kind ActionKind      `json:"action"`
	Data json.RawMessage `json:"data"`
}

// AddTransactionPayload is the data of an add_transaction action.
// Person is accepted but replaced by the acting member's name.
type AddTransactionPayload struct {
	Description   string          `json:"description" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Type          TransactionType `json:"type" validate:"required,oneof=expense income"`
	Category      string          `json:"category" validate:"required"`
	Date          string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Person        string          `json:"person"`
	PaymentMethod *string         `json:"payment_method"`
	Location      *string         `json:"location"`
}

// AddGoalPayload is the data of an add_goal action.
type AddGoalPayload struct {
	Title         string          `json:"title" validate:"required"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Type          GoalType        `json:"type" validate:"required,oneof=savings limit"`
	Category      *string         `json:"category"`
	Period        string          `json:"period"`
}

// AddCategoryPayload is the data of an add_category action.
type AddCategoryPayload struct {
	Name string  `json:"name" validate:"required"`
	Icon *string `json:"icon"`
}

// DeleteTransactionPayload is the data of a delete_transaction action.
type DeleteTransactionPayload struct {
	Description string `json:"description" validate:"required"`
}

// DeleteGoalPayload is the data of a delete_goal action.
type DeleteGoalPayload struct {
	Title string `json:"title" validate:"required"`
}
