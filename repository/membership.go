package repository

import (
	"context"
	"time"

	"github.com/seminarhub/backend/domain"
)

// MembershipRepository is the pure data-access surface of the ledger. All
// invariant checks live in the enrollment use case; listings are ordered by
// joined_at ascending. An empty role matches both roles.
type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.Membership) error
	Get(ctx context.Context, userID, seminarID string) (*domain.Membership, error)
	Exists(ctx context.Context, userID, seminarID string) (bool, error)
	Count(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) (int, error)
	List(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) ([]domain.Membership, error)
	ListByUser(ctx context.Context, userID string, role domain.Role) ([]domain.Membership, error)
	FindActiveInstructorship(ctx context.Context, userID string) (*domain.Membership, error)
	SetDropped(ctx context.Context, id string, at time.Time) error
}
