package journal

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventSeminarCreated = "seminar_created"
	EventSeminarUpdated = "seminar_updated"
	EventMemberJoined   = "member_joined"
	EventMemberDropped  = "member_dropped"
)

// Entry is one recorded enrollment mutation.
type Entry struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	SeminarID  string          `json:"seminar_id"`
	ActorID    string          `json:"actor_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
}
