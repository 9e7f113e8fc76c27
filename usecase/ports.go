package usecase

import (
	"context"

	"github.com/seminarhub/backend/domain"
)

// EventJournal records accepted enrollment mutations for operational audit.
// Implementations are best-effort: the rule engine never fails a request
// because journalling failed.
type EventJournal interface {
	SeminarCreated(ctx context.Context, seminar *domain.Seminar, actorID string) error
	SeminarUpdated(ctx context.Context, seminar *domain.Seminar, actorID string) error
	MemberJoined(ctx context.Context, membership *domain.Membership) error
	MemberDropped(ctx context.Context, membership *domain.Membership) error
}
