// Package enrollment implements the seminar enrollment rule engine. Every
// mutation runs its checks and writes inside one unit of work so capacity
// and instructorship invariants hold under concurrent requests.
package enrollment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
	"github.com/seminarhub/backend/usecase"
	"github.com/seminarhub/backend/usecase/directory"
)

// Business-rule rejections. Forbidden covers role and ownership mismatches;
// Conflict covers rules that depend on current ledger state.
var (
	ErrNotInstructorEligible = domain.NewError(domain.ErrCodeForbidden, "only instructors can create seminars")
	ErrAlreadyInstructing    = domain.NewError(domain.ErrCodeConflict, "the user is an instructor of another seminar")
	ErrNotSeminarInstructor  = domain.NewError(domain.ErrCodeForbidden, "only instructors of this seminar can change information")
	ErrCapacityBelowEnrolled = domain.NewError(domain.ErrCodeConflict, "cannot set capacity less than the number of participants")
	ErrSeminarFull           = domain.NewError(domain.ErrCodeConflict, "the seminar is already full")
	ErrAlreadyMember         = domain.NewError(domain.ErrCodeConflict, "the user is already a member of the seminar")
	ErrAlreadyDropped        = domain.NewError(domain.ErrCodeConflict, "the user has already dropped out from the seminar")
	ErrNotAccepted           = domain.NewError(domain.ErrCodeForbidden, "the user is not an accepted participant")
	ErrNotRoleHolder         = domain.NewError(domain.ErrCodeForbidden, "the user does not hold the requested role")
	ErrInstructorsCannotDrop = domain.NewError(domain.ErrCodeForbidden, "instructors cannot drop the seminar")
	ErrInvalidRole           = domain.NewError(domain.ErrCodeInvalid, "role should be participant or instructor")
)

type UseCase struct {
	uow       repository.UnitOfWork
	users     repository.UserRepository
	directory *directory.UseCase
	journal   usecase.EventJournal
	logger    *zap.Logger
}

func New(
	uow repository.UnitOfWork,
	users repository.UserRepository,
	dir *directory.UseCase,
	journal usecase.EventJournal,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		uow:       uow,
		users:     users,
		directory: dir,
		journal:   journal,
		logger:    logger,
	}
}

// CreateSeminar validates the fields, checks instructor eligibility and the
// one-active-instructorship rule, then creates the seminar together with its
// first instructor membership in one transaction.
func (uc *UseCase) CreateSeminar(ctx context.Context, userID string, in SeminarInput) (*directory.SeminarDetail, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Instructor == nil {
		return nil, ErrNotInstructorEligible
	}

	seminar, err := in.newSeminar()
	if err != nil {
		return nil, err
	}

	var membership *domain.Membership
	err = uc.uow.Within(ctx, repository.Lock{UserID: userID}, func(ctx context.Context, tx repository.Stores) error {
		if _, err := tx.Memberships.FindActiveInstructorship(ctx, userID); err == nil {
			return ErrAlreadyInstructing
		} else if !errors.Is(err, domain.ErrMembershipNotFound) {
			return err
		}

		taken, err := tx.Seminars.ExistsByName(ctx, seminar.Name)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewError(domain.ErrCodeConflict, "seminar name already in use")
		}

		if err := tx.Seminars.Create(ctx, seminar); err != nil {
			return err
		}
		membership = &domain.Membership{
			UserID:    userID,
			SeminarID: seminar.ID,
			Role:      domain.RoleInstructor,
		}
		return tx.Memberships.Create(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	uc.record(ctx, func(j usecase.EventJournal) error { return j.SeminarCreated(ctx, seminar, userID) })
	return uc.directory.Get(ctx, seminar.ID)
}

// UpdateSeminar applies a partial update. Capacity may never drop below the
// current active participant count.
func (uc *UseCase) UpdateSeminar(ctx context.Context, userID, seminarID string, in SeminarInput) (*directory.SeminarDetail, error) {
	var seminar *domain.Seminar
	err := uc.uow.Within(ctx, repository.Lock{SeminarID: seminarID}, func(ctx context.Context, tx repository.Stores) error {
		membership, err := tx.Memberships.Get(ctx, userID, seminarID)
		if err != nil {
			if errors.Is(err, domain.ErrMembershipNotFound) {
				return ErrNotSeminarInstructor
			}
			return err
		}
		if membership.Role != domain.RoleInstructor || !membership.IsActive() {
			return ErrNotSeminarInstructor
		}

		seminar, err = tx.Seminars.GetByID(ctx, seminarID)
		if err != nil {
			return err
		}

		if in.Capacity != nil {
			enrolled, err := tx.Memberships.Count(ctx, seminarID, domain.RoleParticipant, true)
			if err != nil {
				return err
			}
			if *in.Capacity < enrolled {
				return ErrCapacityBelowEnrolled
			}
		}
		if err := in.apply(seminar); err != nil {
			return err
		}
		return tx.Seminars.Update(ctx, seminar)
	})
	if err != nil {
		return nil, err
	}

	uc.record(ctx, func(j usecase.EventJournal) error { return j.SeminarUpdated(ctx, seminar, userID) })
	return uc.directory.Get(ctx, seminarID)
}

// AttendSeminar joins the user to a seminar in the requested role. Any
// existing membership row, dropped or not, blocks the join; there is no
// re-activation path.
func (uc *UseCase) AttendSeminar(ctx context.Context, userID, seminarID string, role domain.Role) (*directory.SeminarDetail, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasRoleProfile(role) {
		return nil, ErrNotRoleHolder
	}

	var membership *domain.Membership
	err = uc.uow.Within(ctx, repository.Lock{UserID: userID, SeminarID: seminarID}, func(ctx context.Context, tx repository.Stores) error {
		existing, err := tx.Memberships.Get(ctx, userID, seminarID)
		if err == nil {
			if existing.DroppedAt != nil {
				return ErrAlreadyDropped
			}
			return ErrAlreadyMember
		}
		if !errors.Is(err, domain.ErrMembershipNotFound) {
			return err
		}

		switch role {
		case domain.RoleParticipant:
			if !user.IsAcceptedParticipant() {
				return ErrNotAccepted
			}
			seminar, err := tx.Seminars.GetByID(ctx, seminarID)
			if err != nil {
				return err
			}
			enrolled, err := tx.Memberships.Count(ctx, seminarID, domain.RoleParticipant, true)
			if err != nil {
				return err
			}
			if enrolled >= seminar.Capacity {
				return ErrSeminarFull
			}
		case domain.RoleInstructor:
			if _, err := tx.Memberships.FindActiveInstructorship(ctx, userID); err == nil {
				return ErrAlreadyInstructing
			} else if !errors.Is(err, domain.ErrMembershipNotFound) {
				return err
			}
		}

		membership = &domain.Membership{
			UserID:    userID,
			SeminarID: seminarID,
			Role:      role,
		}
		return tx.Memberships.Create(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	uc.record(ctx, func(j usecase.EventJournal) error { return j.MemberJoined(ctx, membership) })
	return uc.directory.Get(ctx, seminarID)
}

// DropSeminar marks a participant membership as dropped. Dropping twice or
// dropping without a membership is an idempotent no-op and returns a nil
// detail; instructors cannot drop.
func (uc *UseCase) DropSeminar(ctx context.Context, userID, seminarID string) (*directory.SeminarDetail, error) {
	var (
		membership *domain.Membership
		noop       bool
	)
	err := uc.uow.Within(ctx, repository.Lock{SeminarID: seminarID}, func(ctx context.Context, tx repository.Stores) error {
		existing, err := tx.Memberships.Get(ctx, userID, seminarID)
		if err != nil {
			if errors.Is(err, domain.ErrMembershipNotFound) {
				noop = true
				return nil
			}
			return err
		}
		if existing.DroppedAt != nil {
			noop = true
			return nil
		}
		if existing.Role == domain.RoleInstructor {
			return ErrInstructorsCannotDrop
		}

		now := time.Now()
		if err := tx.Memberships.SetDropped(ctx, existing.ID, now); err != nil {
			return err
		}
		existing.DroppedAt = &now
		membership = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	if noop {
		return nil, nil
	}

	uc.record(ctx, func(j usecase.EventJournal) error { return j.MemberDropped(ctx, membership) })
	return uc.directory.Get(ctx, seminarID)
}

func (uc *UseCase) record(ctx context.Context, fn func(j usecase.EventJournal) error) {
	if uc.journal == nil {
		return
	}
	if err := fn(uc.journal); err != nil {
		uc.logger.Warn("enrollment journal write failed", zap.Error(err))
	}
}
