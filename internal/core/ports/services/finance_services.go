package services

import (
	"context"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

// FinanceSvcFacade exposes the shared household data the chat agent writes.
type FinanceSvcFacade interface {
	// ListTransactions returns a page of transactions, newest first, and the token of the next page.
	ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	ListGoals(ctx context.Context) ([]domain.Goal, error)

	ListCategories(ctx context.Context) ([]domain.Category, error)

	GetSummary(ctx context.Context) (*domain.FinanceSummary, error)

	// GetCategoryBreakdown returns expense totals per category, largest first.
	GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryAmount, error)

	// SubscribeChanges streams change notifications until ctx is done.
	// ErrNotFound when this deployment has no change feed.
	SubscribeChanges(ctx context.Context) (<-chan domain.ChangeEvent, error)
}
