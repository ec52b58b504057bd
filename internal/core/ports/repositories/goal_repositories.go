package repositories

import (
	"context"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GoalReader defines read operations for goal data
type GoalReader interface {
	// ListGoals returns every goal, newest first.
	ListGoals(ctx context.Context) ([]domain.Goal, error)

	// ListGoalsByType returns the goals of one type, newest first.
	ListGoalsByType(ctx context.Context, goalType domain.GoalType) ([]domain.Goal, error)

	// FindLatestGoalByTitle returns the most recently created goal whose title contains
	// fragment, ignoring case. ErrNotFound when nothing matches.
	FindLatestGoalByTitle(ctx context.Context, fragment string) (*domain.Goal, error)
}

// GoalWriter defines write operations for goal data
type GoalWriter interface {
	SaveGoal(ctx context.Context, goal domain.Goal) error

	// IncrementGoalCurrentAmount adds amount to current_amount in a single statement.
	IncrementGoalCurrentAmount(ctx context.Context, goalID string, amount decimal.Decimal) error

	DeleteGoal(ctx context.Context, goalID string) error
}

// GoalRepositoryFacade combines all goal-related repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
}
