package services

import (
	"context"
	"fmt"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/utils/pagination"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// financeService serves the household views built from the shared tables.
type financeService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	goalRepo     portsrepo.GoalRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	changes      portsrepo.ChangeFeed
}

// NewFinanceService creates a new FinanceService.
func NewFinanceService(repos portsrepo.RepositoryProvider, opts ...BaseOption) portssvc.FinanceSvcFacade {
	return &financeService{
		BaseService:  newBaseService(opts...),
		txnRepo:      repos.TransactionRepo,
		goalRepo:     repos.GoalRepo,
		categoryRepo: repos.CategoryRepo,
		changes:      repos.Changes,
	}
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

func (s *financeService) ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	cursor, err := pagination.DecodeCursor(nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// One extra row tells whether another page exists.
	txns, err := s.txnRepo.ListTransactions(ctx, limit+1, cursor)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		next = &token
	}
	return txns, next, nil
}

func (s *financeService) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	goals, err := s.goalRepo.ListGoals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals")
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

func (s *financeService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *financeService) GetSummary(ctx context.Context) (*domain.FinanceSummary, error) {
	sums, err := s.txnRepo.SumByType(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transactions")
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}
	income := sums[domain.Income]
	expenses := sums[domain.Expense]
	return &domain.FinanceSummary{
		Income:   income,
		Expenses: expenses,
		Balance:  income.Sub(expenses),
	}, nil
}

func (s *financeService) GetCategoryBreakdown(ctx context.Context) ([]domain.CategoryAmount, error) {
	breakdown, err := s.txnRepo.SumExpensesByCategory(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to build category breakdown")
		return nil, fmt.Errorf("failed to build category breakdown: %w", err)
	}
	return breakdown, nil
}

func (s *financeService) SubscribeChanges(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	if s.changes == nil {
		return nil, fmt.Errorf("change feed unavailable: %w", apperrors.ErrNotFound)
	}
	events, err := s.changes.Subscribe(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to subscribe to changes")
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}
	return events, nil
}
