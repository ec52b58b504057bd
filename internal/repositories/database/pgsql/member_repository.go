package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/family_finance_agent/internal/apperrors"
	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portsrepo "github.com/SscSPs/family_finance_agent/internal/core/ports/repositories"
	"github.com/SscSPs/family_finance_agent/internal/models"
	"github.com/SscSPs/family_finance_agent/internal/utils/mapping"
)

type PgxMemberRepository struct {
	BaseRepository
}

// newPgxMemberRepository creates a new repository for members and their sessions.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func scanMember(row pgx.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.MemberID, &m.Name, &m.PinHash, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	query := `SELECT id, name, pin_hash, created_at, updated_at FROM family_members WHERE id = $1;`
	m, err := scanMember(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member %s: %w", memberID, err)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

func (r *PgxMemberRepository) FindMemberCredentials(ctx context.Context, name string) (*domain.Member, string, error) {
	query := `SELECT id, name, pin_hash, created_at, updated_at FROM family_members WHERE name = $1;`
	m, err := scanMember(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to find member %q: %w", name, err)
	}
	member := mapping.ToDomainMember(m)
	return &member, m.PinHash, nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, pin_hash, created_at, updated_at FROM family_members ORDER BY created_at ASC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	modelMembers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Member, error) {
		return scanMember(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan members: %w", err)
	}

	members := make([]domain.Member, len(modelMembers))
	for i, m := range modelMembers {
		members[i] = mapping.ToDomainMember(m)
	}
	return members, nil
}

// RegisterMember inserts the member and its first session in one transaction.
func (r *PgxMemberRepository) RegisterMember(ctx context.Context, member domain.Member, pinHash string, session domain.MemberSession) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO family_members (id, name, pin_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`, member.MemberID, member.Name, pinHash, member.CreatedAt, member.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert member %q: %w", member.Name, err)
	}

	if err := insertSession(ctx, tx, session); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertSession(ctx context.Context, tx pgx.Tx, session domain.MemberSession) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO member_sessions (id, member_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4);
	`, session.SessionID, session.MemberID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session for member %s: %w", session.MemberID, err)
	}
	return nil
}

func (r *PgxMemberRepository) SaveSession(ctx context.Context, session domain.MemberSession) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO member_sessions (id, member_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4);
	`, session.SessionID, session.MemberID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session for member %s: %w", session.MemberID, err)
	}
	return nil
}

func (r *PgxMemberRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.MemberSession, error) {
	var m models.MemberSession
	err := r.Pool.QueryRow(ctx, `
		SELECT id, member_id, expires_at, revoked_at, created_at
		FROM member_sessions
		WHERE id = $1;
	`, sessionID).Scan(&m.SessionID, &m.MemberID, &m.ExpiresAt, &m.RevokedAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	session := mapping.ToDomainMemberSession(m)
	return &session, nil
}

func (r *PgxMemberRepository) RevokeSession(ctx context.Context, sessionID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE member_sessions
		SET revoked_at = COALESCE(revoked_at, $1)
		WHERE id = $2;
	`, at, sessionID)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
