package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
)

type membershipRepository struct {
	db querier
}

// NewMembershipRepository returns a Postgres-backed implementation of
// MembershipRepository. The db argument is either a pool or an open
// transaction.
func NewMembershipRepository(db querier) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

const membershipColumns = `id, user_id, seminar_id, role, joined_at, dropped_at`

func (r *membershipRepository) Create(ctx context.Context, membership *domain.Membership) error {
	if membership == nil {
		return domain.ErrInvalidPayload
	}
	if membership.ID == "" {
		membership.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO memberships (id, user_id, seminar_id, role)
	VALUES ($1, $2, $3, $4)
	RETURNING joined_at
	`
	err := r.db.QueryRow(ctx, query,
		membership.ID,
		membership.UserID,
		membership.SeminarID,
		string(membership.Role),
	).Scan(&membership.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrCodeConflict, "user already has a membership for this seminar")
		}
		return err
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, userID, seminarID string) (*domain.Membership, error) {
	const query = `
	SELECT ` + membershipColumns + `
	FROM memberships
	WHERE user_id = $1 AND seminar_id = $2
	`
	return scanMembership(r.db.QueryRow(ctx, query, userID, seminarID))
}

func (r *membershipRepository) Exists(ctx context.Context, userID, seminarID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM memberships WHERE user_id = $1 AND seminar_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, seminarID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *membershipRepository) Count(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM memberships
	WHERE seminar_id = $1
	  AND ($2 = '' OR role = $2)
	  AND (NOT $3 OR dropped_at IS NULL)
	`
	var count int
	if err := r.db.QueryRow(ctx, query, seminarID, string(role), activeOnly).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *membershipRepository) List(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) ([]domain.Membership, error) {
	const query = `
	SELECT ` + membershipColumns + `
	FROM memberships
	WHERE seminar_id = $1
	  AND ($2 = '' OR role = $2)
	  AND (NOT $3 OR dropped_at IS NULL)
	ORDER BY joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, seminarID, string(role), activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemberships(rows)
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID string, role domain.Role) ([]domain.Membership, error) {
	const query = `
	SELECT ` + membershipColumns + `
	FROM memberships
	WHERE user_id = $1
	  AND ($2 = '' OR role = $2)
	ORDER BY joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemberships(rows)
}

func (r *membershipRepository) FindActiveInstructorship(ctx context.Context, userID string) (*domain.Membership, error) {
	const query = `
	SELECT ` + membershipColumns + `
	FROM memberships
	WHERE user_id = $1 AND role = 'instructor' AND dropped_at IS NULL
	`
	return scanMembership(r.db.QueryRow(ctx, query, userID))
}

func (r *membershipRepository) SetDropped(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE memberships SET dropped_at = $2 WHERE id = $1 AND dropped_at IS NULL`
	tag, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

func scanMembership(row pgx.Row) (*domain.Membership, error) {
	var membership domain.Membership
	var role string

	if err := row.Scan(
		&membership.ID,
		&membership.UserID,
		&membership.SeminarID,
		&role,
		&membership.JoinedAt,
		&membership.DroppedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMembershipNotFound
		}
		return nil, err
	}
	membership.Role = domain.Role(role)
	return &membership, nil
}

func collectMemberships(rows pgx.Rows) ([]domain.Membership, error) {
	var memberships []domain.Membership
	for rows.Next() {
		membership, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, *membership)
	}
	return memberships, rows.Err()
}
