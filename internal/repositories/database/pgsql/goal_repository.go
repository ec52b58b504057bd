package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_agent/internal/models"
	"github.com/SscSPs/family_finance_agent/internal/utils/mapping"
)

const goalColumns = `id, title, target_amount, current_amount, type, category, period, start_date, end_date, member_id, created_at, updated_at`

type PgxGoalRepository struct {
	BaseRepository
}

// newPgxGoalRepository creates a new repository for goal data.
func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

func scanGoal(row pgx.Row) (models.Goal, error) {
	var g models.Goal
	err := row.Scan(
		&g.GoalID,
		&g.Title,
		&g.TargetAmount,
		&g.CurrentAmount,
		&g.Type,
		&g.Category,
		&g.Period,
		&g.StartDate,
		&g.EndDate,
		&g.MemberID,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	return g, err
}

func (r *PgxGoalRepository) queryGoals(ctx context.Context, query string, args ...any) ([]domain.Goal, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	modelGoals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Goal, error) {
		return scanGoal(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan goals: %w", err)
	}
	return mapping.ToDomainGoalSlice(modelGoals), nil
}

func (r *PgxGoalRepository) ListGoals(ctx context.Context) ([]domain.Goal, error) {
	return r.queryGoals(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY created_at DESC;`)
}

func (r *PgxGoalRepository) ListGoalsByType(ctx context.Context, goalType domain.GoalType) ([]domain.Goal, error) {
	return r.queryGoals(ctx, `SELECT `+goalColumns+` FROM goals WHERE type = $1 ORDER BY created_at DESC;`, string(goalType))
}

func (r *PgxGoalRepository) FindLatestGoalByTitle(ctx context.Context, fragment string) (*domain.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE title ILIKE $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanGoal(r.Pool.QueryRow(ctx, query, containsPattern(fragment)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find goal matching %q: %w", fragment, err)
	}
	goal := mapping.ToDomainGoal(m)
	return &goal, nil
}

func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	m := mapping.ToModelGoal(goal)
	query := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GoalID,
		m.Title,
		m.TargetAmount,
		m.CurrentAmount,
		m.Type,
		m.Category,
		m.Period,
		m.StartDate,
		m.EndDate,
		m.MemberID,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert goal %s: %w", m.GoalID, err)
	}
	return nil
}

// IncrementGoalCurrentAmount adds in SQL so concurrent increments on one row are not lost.
func (r *PgxGoalRepository) IncrementGoalCurrentAmount(ctx context.Context, goalID string, amount decimal.Decimal) error {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1, updated_at = $2
		WHERE id = $3;
	`
	tag, err := r.Pool.Exec(ctx, query, amount, time.Now(), goalID)
	if err != nil {
		return fmt.Errorf("failed to increment goal %s: %w", goalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE id = $1;`, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", goalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
