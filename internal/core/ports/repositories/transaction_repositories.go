package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionCursor positions keyset pagination over (date desc, created_at desc).
type TransactionCursor struct {
	Date      time.Time
	CreatedAt time.Time
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// ListTransactions returns up to limit transactions ordered by date then creation time,
	// newest first, starting after the cursor when one is given.
	ListTransactions(ctx context.Context, limit int, after *TransactionCursor) ([]domain.Transaction, error)

	// FindLatestTransactionByDescription returns the most recently created transaction whose
	// description contains fragment, ignoring case. ErrNotFound when nothing matches.
	FindLatestTransactionByDescription(ctx context.Context, fragment string) (*domain.Transaction, error)

	// SumByType returns the totals of expenses and incomes.
	SumByType(ctx context.Context) (map[domain.TransactionType]decimal.Decimal, error)

	// SumExpensesByCategory returns the expense total per category.
	SumExpensesByCategory(ctx context.Context) ([]domain.CategoryAmount, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
