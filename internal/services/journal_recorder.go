package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/internal/infrastructure/journal"
	"github.com/seminarhub/backend/usecase"
)

// JournalRecorder bridges the enrollment engine to the local journal store.
type JournalRecorder struct {
	store  *journal.Store
	logger *zap.Logger
}

func NewJournalRecorder(store *journal.Store, logger *zap.Logger) *JournalRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JournalRecorder{store: store, logger: logger}
}

func (r *JournalRecorder) SeminarCreated(ctx context.Context, seminar *domain.Seminar, actorID string) error {
	return r.append(journal.EventSeminarCreated, seminar.ID, actorID, seminar)
}

func (r *JournalRecorder) SeminarUpdated(ctx context.Context, seminar *domain.Seminar, actorID string) error {
	return r.append(journal.EventSeminarUpdated, seminar.ID, actorID, seminar)
}

func (r *JournalRecorder) MemberJoined(ctx context.Context, membership *domain.Membership) error {
	return r.append(journal.EventMemberJoined, membership.SeminarID, membership.UserID, membership)
}

func (r *JournalRecorder) MemberDropped(ctx context.Context, membership *domain.Membership) error {
	return r.append(journal.EventMemberDropped, membership.SeminarID, membership.UserID, membership)
}

func (r *JournalRecorder) append(kind, seminarID, actorID string, payload interface{}) error {
	if r.store == nil || payload == nil {
		return domain.ErrInvalidPayload
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.store.Append(journal.Entry{
		Kind:      kind,
		SeminarID: seminarID,
		ActorID:   actorID,
		Data:      data,
	})
}

var _ usecase.EventJournal = (*JournalRecorder)(nil)
