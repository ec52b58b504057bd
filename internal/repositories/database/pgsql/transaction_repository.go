package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_agent/internal/models"
	"github.com/SscSPs/family_finance_agent/internal/utils/mapping"
)

const transactionColumns = `id, description, amount, type, category, date, person, member_id, payment_method, location, created_at, updated_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.Description,
		&t.Amount,
		&t.Type,
		&t.Category,
		&t.Date,
		&t.Person,
		&t.MemberID,
		&t.PaymentMethod,
		&t.Location,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.Description,
		m.Amount,
		m.Type,
		m.Category,
		m.Date,
		m.Person,
		m.MemberID,
		m.PaymentMethod,
		m.Location,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// ListTransactions uses keyset pagination on (date, created_at).
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, limit int, after *portsrepo.TransactionCursor) ([]domain.Transaction, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after == nil {
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			ORDER BY date DESC, created_at DESC
			LIMIT $1;
		`
		rows, err = r.Pool.Query(ctx, query, limit)
	} else {
		query := `
			SELECT ` + transactionColumns + `
			FROM transactions
			WHERE (date, created_at) < ($2, $3)
			ORDER BY date DESC, created_at DESC
			LIMIT $1;
		`
		rows, err = r.Pool.Query(ctx, query, limit, after.Date, after.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func (r *PgxTransactionRepository) FindLatestTransactionByDescription(ctx context.Context, fragment string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE description ILIKE $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, containsPattern(fragment)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction matching %q: %w", fragment, err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) SumByType(ctx context.Context) (map[domain.TransactionType]decimal.Decimal, error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0)
		FROM transactions
		GROUP BY type;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}
	defer rows.Close()

	sums := map[domain.TransactionType]decimal.Decimal{
		domain.Expense: decimal.Zero,
		domain.Income:  decimal.Zero,
	}
	for rows.Next() {
		var (
			txnType string
			total   decimal.Decimal
		)
		if err := rows.Scan(&txnType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan transaction sum: %w", err)
		}
		sums[domain.TransactionType(txnType)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction sums: %w", err)
	}
	return sums, nil
}

func (r *PgxTransactionRepository) SumExpensesByCategory(ctx context.Context) ([]domain.CategoryAmount, error) {
	query := `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE type = 'expense'
		GROUP BY category
		ORDER BY total DESC, category ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryAmount, error) {
		var ca domain.CategoryAmount
		err := row.Scan(&ca.Category, &ca.Amount)
		return ca, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan category breakdown: %w", err)
	}
	return breakdown, nil
}
