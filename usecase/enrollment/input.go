package enrollment

import (
	"strings"

	"github.com/seminarhub/backend/domain"
)

// SeminarInput carries seminar fields for create and partial update. Nil
// pointers mean "not supplied"; value parsing (HH:MM time, boolean tokens)
// already happened during JSON decoding.
type SeminarInput struct {
	Name        *string
	Description *string
	Capacity    *int
	Count       *int
	Time        *domain.ClockTime
	StartDate   *domain.Date
	Online      *domain.FlexBool
}

func (in SeminarInput) newSeminar() (*domain.Seminar, error) {
	seminar := &domain.Seminar{Online: true}

	if in.Name == nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "name is required")
	}
	if in.Capacity == nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "capacity is required")
	}
	if in.Count == nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "count is required")
	}
	if in.Time == nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "time is required")
	}
	if err := in.apply(seminar); err != nil {
		return nil, err
	}
	return seminar, nil
}

func (in SeminarInput) apply(seminar *domain.Seminar) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.NewError(domain.ErrCodeInvalid, "name must not be blank")
		}
		if len(name) > domain.MaxSeminarNameLen {
			return domain.NewError(domain.ErrCodeInvalid, "name is too long")
		}
		seminar.Name = name
	}
	if in.Description != nil {
		if len(*in.Description) > domain.MaxSeminarDescriptionLen {
			return domain.NewError(domain.ErrCodeInvalid, "description is too long")
		}
		seminar.Description = *in.Description
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return domain.NewError(domain.ErrCodeInvalid, "capacity must not be negative")
		}
		seminar.Capacity = *in.Capacity
	}
	if in.Count != nil {
		if *in.Count < 0 {
			return domain.NewError(domain.ErrCodeInvalid, "count must not be negative")
		}
		seminar.Count = *in.Count
	}
	if in.Time != nil {
		seminar.Time = *in.Time
	}
	if in.StartDate != nil {
		seminar.StartDate = in.StartDate
	}
	if in.Online != nil {
		seminar.Online = in.Online.Bool()
	}
	return nil
}
