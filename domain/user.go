package domain

import "time"

// User represents an authenticated account. The two optional sub-profiles
// determine which seminar roles the account may hold.
type User struct {
	ID           string              `json:"id"`
	Username     string              `json:"username"`
	Email        string              `json:"email"`
	PasswordHash string              `json:"-"`
	FirstName    string              `json:"first_name,omitempty"`
	LastName     string              `json:"last_name,omitempty"`
	LastLogin    *time.Time          `json:"last_login,omitempty"`
	DateJoined   time.Time           `json:"date_joined"`
	Participant  *ParticipantProfile `json:"participant,omitempty"`
	Instructor   *InstructorProfile  `json:"instructor,omitempty"`
}

// ParticipantProfile gates join-as-participant eligibility through Accepted.
type ParticipantProfile struct {
	ID         string    `json:"id"`
	University string    `json:"university,omitempty"`
	Accepted   *bool     `json:"accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InstructorProfile marks the account as instructor-eligible.
type InstructorProfile struct {
	ID        string    `json:"id"`
	Company   string    `json:"company,omitempty"`
	Year      *int      `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAcceptedParticipant reports whether the user both holds a participant
// profile and has been accepted.
func (u *User) IsAcceptedParticipant() bool {
	return u != nil && u.Participant != nil && u.Participant.Accepted != nil && *u.Participant.Accepted
}

// HasRoleProfile reports whether the user holds the sub-profile matching role.
func (u *User) HasRoleProfile(role Role) bool {
	if u == nil {
		return false
	}
	switch role {
	case RoleParticipant:
		return u.Participant != nil
	case RoleInstructor:
		return u.Instructor != nil
	}
	return false
}
