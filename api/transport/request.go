package transport

import "github.com/seminarhub/backend/domain"

// SeminarRequest carries seminar fields for create and partial update. Nil
// means the field was absent; the custom value types reject malformed time
// strings and ambiguous boolean tokens during decoding.
type SeminarRequest struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Capacity    *int              `json:"capacity"`
	Count       *int              `json:"count"`
	Time        *domain.ClockTime `json:"time"`
	StartDate   *domain.Date      `json:"start_date"`
	Online      *domain.FlexBool  `json:"online"`
}

type AttendRequest struct {
	Role string `json:"role"`
}

type RegisterRequest struct {
	Username   string           `json:"username"`
	Email      string           `json:"email"`
	Password   string           `json:"password"`
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	Role       string           `json:"role"`
	University string           `json:"university"`
	Accepted   *domain.FlexBool `json:"accepted"`
	Company    string           `json:"company"`
	Year       *int             `json:"year"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserUpdateRequest struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	University *string `json:"university"`
	Company    *string `json:"company"`
	Year       *int    `json:"year"`
}

type ParticipantRequest struct {
	University string           `json:"university"`
	Accepted   *domain.FlexBool `json:"accepted"`
}
