package domain

import "time"

// Role is the capacity in which a user belongs to a seminar.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleInstructor  Role = "instructor"
)

// Valid reports whether the role is one of the two accepted values.
func (r Role) Valid() bool {
	return r == RoleParticipant || r == RoleInstructor
}

// Membership is a ledger entry linking one user to one seminar. At most one
// row exists per (user, seminar) pair; a set DroppedAt is terminal.
type Membership struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	SeminarID string     `json:"seminar_id"`
	Role      Role       `json:"role"`
	JoinedAt  time.Time  `json:"joined_at"`
	DroppedAt *time.Time `json:"dropped_at"`
}

// IsActive reports whether the membership has not been dropped.
func (m *Membership) IsActive() bool {
	return m != nil && m.DroppedAt == nil
}
