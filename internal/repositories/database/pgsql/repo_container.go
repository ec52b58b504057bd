package pgsql

import (
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx repositories. changes may be nil when change
// notifications are not relayed.
func NewRepositoryProvider(dbPool *pgxpool.Pool, changes portsrepo.ChangeFeed) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		GoalRepo:        newPgxGoalRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		MemberRepo:      newPgxMemberRepository(dbPool),
		Changes:         changes,
	}
}
