package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
)

type unitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork returns a transaction runner for the enrollment engine.
//
// Concurrent attend calls would otherwise race between the capacity read and
// the membership insert: two transactions read the same active count, both
// pass the check, and the seminar is oversold. Taking SELECT ... FOR UPDATE
// row locks up front serializes every rule check against the locked rows,
// so the read and the write commit as one unit. The same lock on the user
// row protects the one-active-instructorship invariant.
func NewUnitOfWork(pool *pgxpool.Pool) repository.UnitOfWork {
	return &unitOfWork{pool: pool}
}

func (u *unitOfWork) Within(ctx context.Context, lock repository.Lock, fn func(ctx context.Context, tx repository.Stores) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock order is fixed (user before seminar) so two units of work can
	// never deadlock against each other.
	if lock.UserID != "" {
		var id string
		err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, lock.UserID).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = domain.ErrUserNotFound
			}
			return err
		}
	}
	if lock.SeminarID != "" {
		var id string
		err = tx.QueryRow(ctx, `SELECT id FROM seminars WHERE id = $1 FOR UPDATE`, lock.SeminarID).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = domain.ErrSeminarNotFound
			}
			return err
		}
	}

	stores := repository.Stores{
		Seminars:    NewSeminarRepository(tx),
		Memberships: NewMembershipRepository(tx),
	}
	if err = fn(ctx, stores); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
