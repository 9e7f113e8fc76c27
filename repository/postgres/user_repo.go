package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userSelect = `
	SELECT u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
		u.last_login, u.date_joined,
		p.id, p.university, p.accepted, p.created_at, p.updated_at,
		i.id, i.company, i.year, i.created_at, i.updated_at
	FROM users u
	LEFT JOIN participant_profiles p ON p.user_id = u.id
	LEFT JOIN instructor_profiles i ON i.user_id = u.id
`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, userSelect+`WHERE u.id = $1`, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, userSelect+`WHERE u.username = $1`, username))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const insertUser = `
	INSERT INTO users (id, username, email, password_hash, first_name, last_name, date_joined)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING date_joined
	`
	if err = tx.QueryRow(ctx, insertUser,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
	).Scan(&user.DateJoined); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrCodeConflict, "username already taken")
		}
		return err
	}

	if user.Participant != nil {
		if err = insertParticipantProfile(ctx, tx, user.ID, user.Participant); err != nil {
			return err
		}
	}
	if user.Instructor != nil {
		if err = insertInstructorProfile(ctx, tx, user.ID, user.Instructor); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const updateUser = `
	UPDATE users
	SET email = $2, first_name = $3, last_name = $4
	WHERE id = $1
	`
	tag, err := tx.Exec(ctx, updateUser, user.ID, user.Email, user.FirstName, user.LastName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = domain.ErrUserNotFound
		return err
	}

	if user.Participant != nil {
		const q = `
		UPDATE participant_profiles
		SET university = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
		`
		if err = tx.QueryRow(ctx, q, user.ID, user.Participant.University).
			Scan(&user.Participant.UpdatedAt); err != nil {
			return err
		}
	}
	if user.Instructor != nil {
		const q = `
		UPDATE instructor_profiles
		SET company = $2, year = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
		`
		if err = tx.QueryRow(ctx, q, user.ID, user.Instructor.Company, user.Instructor.Year).
			Scan(&user.Instructor.UpdatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *userRepository) CreateParticipantProfile(ctx context.Context, userID string, profile *domain.ParticipantProfile) error {
	if profile == nil {
		return domain.ErrInvalidPayload
	}
	if err := insertParticipantProfile(ctx, r.pool, userID, profile); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrCodeConflict, "user already has a participant profile")
		}
		return err
	}
	return nil
}

func (r *userRepository) SetLastLogin(ctx context.Context, userID string, at time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, userID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func insertParticipantProfile(ctx context.Context, db querier, userID string, profile *domain.ParticipantProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	const query = `
	INSERT INTO participant_profiles (id, user_id, university, accepted, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NOW(), NOW())
	RETURNING created_at, updated_at
	`
	return db.QueryRow(ctx, query, profile.ID, userID, profile.University, profile.Accepted).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func insertInstructorProfile(ctx context.Context, db querier, userID string, profile *domain.InstructorProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	const query = `
	INSERT INTO instructor_profiles (id, user_id, company, year, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NOW(), NOW())
	RETURNING created_at, updated_at
	`
	return db.QueryRow(ctx, query, profile.ID, userID, profile.Company, profile.Year).
		Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var (
		participantID      *string
		university         *string
		accepted           *bool
		participantCreated *time.Time
		participantUpdated *time.Time
		instructorID       *string
		company            *string
		year               *int
		instructorCreated  *time.Time
		instructorUpdated  *time.Time
	)

	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.LastLogin,
		&user.DateJoined,
		&participantID,
		&university,
		&accepted,
		&participantCreated,
		&participantUpdated,
		&instructorID,
		&company,
		&year,
		&instructorCreated,
		&instructorUpdated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if participantID != nil {
		user.Participant = &domain.ParticipantProfile{
			ID:        *participantID,
			Accepted:  accepted,
			CreatedAt: *participantCreated,
			UpdatedAt: *participantUpdated,
		}
		if university != nil {
			user.Participant.University = *university
		}
	}
	if instructorID != nil {
		user.Instructor = &domain.InstructorProfile{
			ID:        *instructorID,
			Year:      year,
			CreatedAt: *instructorCreated,
			UpdatedAt: *instructorUpdated,
		}
		if company != nil {
			user.Instructor.Company = *company
		}
	}

	return &user, nil
}
