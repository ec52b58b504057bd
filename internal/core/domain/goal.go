package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalType distinguishes accumulation goals from spending caps.
type GoalType string

const (
	Savings GoalType = "savings"
	Limit   GoalType = "limit"
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	return t == Savings || t == Limit
}

// DefaultGoalPeriod is used when a goal is created without an explicit period.
const DefaultGoalPeriod = "month"

// Goal is a shared savings target or a spending limit.
// A nil Category on a limit goal means it tracks every expense category.
type Goal struct {
	GoalID        string          `json:"goalID"`
	Title         string          `json:"title"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Type          GoalType        `json:"type"`
	Category      *string         `json:"category"`
	Period        string          `json:"period"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	MemberID      *string         `json:"memberID,omitempty"`
	Timestamps
}

// TracksCategory reports whether an expense in category counts toward this goal.
func (g *Goal) TracksCategory(category string) bool {
	return g.Category == nil || *g.Category == category
}

// Progress returns CurrentAmount as a percentage of TargetAmount, rounded to two places.
func (g *Goal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Round(2)
}
