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

type seminarRepository struct {
	db querier
}

// NewSeminarRepository returns a Postgres-backed implementation of
// SeminarRepository. The db argument is either a pool or an open transaction.
func NewSeminarRepository(db querier) repository.SeminarRepository {
	return &seminarRepository{db: db}
}

const seminarColumns = `id, name, description, capacity, count, time, start_date, online, created_at, updated_at`

func (r *seminarRepository) Create(ctx context.Context, seminar *domain.Seminar) error {
	if seminar == nil {
		return domain.ErrInvalidPayload
	}
	if seminar.ID == "" {
		seminar.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO seminars (id, name, description, capacity, count, time, start_date, online)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		seminar.ID,
		seminar.Name,
		seminar.Description,
		seminar.Capacity,
		seminar.Count,
		seminar.Time.String(),
		nullDate(seminar.StartDate),
		seminar.Online,
	).Scan(&seminar.CreatedAt, &seminar.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrCodeConflict, "seminar name already in use")
		}
		return err
	}
	return nil
}

func (r *seminarRepository) GetByID(ctx context.Context, id string) (*domain.Seminar, error) {
	const query = `SELECT ` + seminarColumns + ` FROM seminars WHERE id = $1`
	return scanSeminar(r.db.QueryRow(ctx, query, id))
}

func (r *seminarRepository) Update(ctx context.Context, seminar *domain.Seminar) error {
	if seminar == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE seminars
	SET name = $2,
		description = $3,
		capacity = $4,
		count = $5,
		time = $6,
		start_date = $7,
		online = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		seminar.ID,
		seminar.Name,
		seminar.Description,
		seminar.Capacity,
		seminar.Count,
		seminar.Time.String(),
		nullDate(seminar.StartDate),
		seminar.Online,
	).Scan(&seminar.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSeminarNotFound
		}
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrCodeConflict, "seminar name already in use")
		}
		return err
	}
	return nil
}

func (r *seminarRepository) List(ctx context.Context, filter repository.SeminarFilter) ([]domain.Seminar, error) {
	query := `
	SELECT ` + seminarColumns + `
	FROM seminars
	WHERE ($1 = '' OR name LIKE '%' || $1 || '%')
	ORDER BY created_at DESC
	`
	if filter.Order == repository.OrderEarliest {
		query = `
	SELECT ` + seminarColumns + `
	FROM seminars
	WHERE ($1 = '' OR name LIKE '%' || $1 || '%')
	ORDER BY created_at ASC
	`
	}

	rows, err := r.db.Query(ctx, query, filter.Name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seminars []domain.Seminar
	for rows.Next() {
		seminar, err := scanSeminar(rows)
		if err != nil {
			return nil, err
		}
		seminars = append(seminars, *seminar)
	}
	return seminars, rows.Err()
}

func (r *seminarRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM seminars WHERE name = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func scanSeminar(row pgx.Row) (*domain.Seminar, error) {
	var seminar domain.Seminar
	var (
		clock     string
		startDate *time.Time
	)

	if err := row.Scan(
		&seminar.ID,
		&seminar.Name,
		&seminar.Description,
		&seminar.Capacity,
		&seminar.Count,
		&clock,
		&startDate,
		&seminar.Online,
		&seminar.CreatedAt,
		&seminar.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSeminarNotFound
		}
		return nil, err
	}

	parsed, err := domain.ParseClockTime(clock)
	if err != nil {
		return nil, err
	}
	seminar.Time = parsed
	seminar.StartDate = dateFromTime(startDate)

	return &seminar, nil
}
