package domain

import "time"

// Seminar is a course-like entity with a fixed participant capacity.
type Seminar struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity"`
	Count       int       `json:"count"`
	Time        ClockTime `json:"time"`
	StartDate   *Date     `json:"start_date"`
	Online      bool      `json:"online"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	MaxSeminarNameLen        = 100
	MaxSeminarDescriptionLen = 200
)

func (s *Seminar) Touch() {
	if s == nil {
		return
	}
	s.UpdatedAt = time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = s.UpdatedAt
	}
}
