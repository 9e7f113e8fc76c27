package repository

import (
	"context"
	"time"

	"github.com/seminarhub/backend/domain"
)

// UserRepository persists accounts together with their optional role profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	CreateParticipantProfile(ctx context.Context, userID string, profile *domain.ParticipantProfile) error
	SetLastLogin(ctx context.Context, userID string, at time.Time) error
}
