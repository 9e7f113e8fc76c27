package repository

import (
	"context"

	"github.com/seminarhub/backend/domain"
)

// OrderEarliest sorts seminar listings ascending by creation time. Any other
// order value falls back to descending.
const OrderEarliest = "earliest"

type SeminarFilter struct {
	Name  string
	Order string
}

type SeminarRepository interface {
	Create(ctx context.Context, seminar *domain.Seminar) error
	GetByID(ctx context.Context, id string) (*domain.Seminar, error)
	Update(ctx context.Context, seminar *domain.Seminar) error
	List(ctx context.Context, filter SeminarFilter) ([]domain.Seminar, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
