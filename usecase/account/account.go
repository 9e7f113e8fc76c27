// Package account covers registration, login and profile management. A user
// may hold a participant profile, an instructor profile, or both; the
// profiles gate which seminar roles the enrollment engine will grant.
package account

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
)

var (
	ErrBadCredentials  = domain.NewError(domain.ErrCodeUnauthorized, "wrong username or password")
	ErrInvalidRole     = domain.NewError(domain.ErrCodeInvalid, "role should be participant or instructor")
	ErrAlreadyHasRole  = domain.NewError(domain.ErrCodeConflict, "the user already has a participant profile")
	ErrUnpairedNames   = domain.NewError(domain.ErrCodeInvalid, "first name and last name should appear together")
	ErrNonAlphaNames   = domain.NewError(domain.ErrCodeInvalid, "first name and last name must contain letters only")
	ErrPasswordTooLong = domain.NewError(domain.ErrCodeInvalid, "password is too long")
)

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Role       domain.Role
	University string
	Accepted   *domain.FlexBool
	Company    string
	Year       *int
}

type UpdateInput struct {
	Email      *string
	FirstName  *string
	LastName   *string
	University *string
	Company    *string
	Year       *int
}

type ParticipantInput struct {
	University string
	Accepted   *domain.FlexBool
}

// SeminarHistory is one entry of a participant's enrollment record.
type SeminarHistory struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	JoinedAt  time.Time  `json:"joined_at"`
	IsActive  bool       `json:"is_active"`
	DroppedAt *time.Time `json:"dropped_at"`
}

// Instructorship names the seminar an instructor currently leads.
type Instructorship struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

type ParticipantView struct {
	ID         string           `json:"id"`
	University string           `json:"university,omitempty"`
	Accepted   *bool            `json:"accepted"`
	Seminars   []SeminarHistory `json:"seminars"`
}

type InstructorView struct {
	ID      string          `json:"id"`
	Company string          `json:"company,omitempty"`
	Year    *int            `json:"year"`
	Charge  *Instructorship `json:"charge"`
}

// Profile is the account projection returned by every account operation.
type Profile struct {
	ID          string           `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name,omitempty"`
	LastName    string           `json:"last_name,omitempty"`
	LastLogin   *time.Time       `json:"last_login"`
	DateJoined  time.Time        `json:"date_joined"`
	Participant *ParticipantView `json:"participant"`
	Instructor  *InstructorView  `json:"instructor"`
}

type UseCase struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	seminars    repository.SeminarRepository
	sessions    repository.SessionRepository
	tokens      *TokenManager
	logger      *zap.Logger
}

func New(
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	seminars repository.SeminarRepository,
	sessions repository.SessionRepository,
	tokens *TokenManager,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:       users,
		memberships: memberships,
		seminars:    seminars,
		sessions:    sessions,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register creates an account with the role profile matching in.Role and
// logs the new user in.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*Profile, string, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, "", domain.NewError(domain.ErrCodeInvalid, "username is required")
	}
	if in.Password == "" {
		return nil, "", domain.NewError(domain.ErrCodeInvalid, "password is required")
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, "", err
	}
	if !in.Role.Valid() {
		return nil, "", ErrInvalidRole
	}
	if err := validateNames(in.FirstName, in.LastName); err != nil {
		return nil, "", err
	}
	if in.Year != nil && *in.Year < 0 {
		return nil, "", domain.NewError(domain.ErrCodeInvalid, "year must not be negative")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, "", ErrPasswordTooLong
		}
		return nil, "", err
	}

	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	switch in.Role {
	case domain.RoleParticipant:
		accepted := true
		if in.Accepted != nil {
			accepted = in.Accepted.Bool()
		}
		user.Participant = &domain.ParticipantProfile{
			University: in.University,
			Accepted:   &accepted,
		}
	case domain.RoleInstructor:
		user.Instructor = &domain.InstructorProfile{
			Company: in.Company,
			Year:    in.Year,
		}
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := uc.startSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	profile, err := uc.buildProfile(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// Login verifies credentials, records the login time and opens a session.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*Profile, string, error) {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", ErrBadCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrBadCredentials
	}

	now := time.Now()
	if err := uc.users.SetLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", err
	}
	user.LastLogin = &now

	token, err := uc.startSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	profile, err := uc.buildProfile(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return profile, token, nil
}

// Logout revokes the session, invalidating every token bound to it.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Get returns the profile projection for any user.
func (uc *UseCase) Get(ctx context.Context, userID string) (*Profile, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.buildProfile(ctx, user)
}

// Update applies a partial update to the caller's account and profiles.
// The accepted flag is managed elsewhere and not updatable here.
func (uc *UseCase) Update(ctx context.Context, userID string, in UpdateInput) (*Profile, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return nil, err
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.FirstName != nil || in.LastName != nil {
		if err := validateNames(user.FirstName, user.LastName); err != nil {
			return nil, err
		}
	}
	if user.Participant != nil && in.University != nil {
		user.Participant.University = *in.University
	}
	if user.Instructor != nil {
		if in.Company != nil {
			user.Instructor.Company = *in.Company
		}
		if in.Year != nil {
			if *in.Year < 0 {
				return nil, domain.NewError(domain.ErrCodeInvalid, "year must not be negative")
			}
			user.Instructor.Year = in.Year
		}
	}

	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.buildProfile(ctx, user)
}

// RegisterParticipant adds a participant profile to an account that does not
// have one yet. Accepted defaults to true when not supplied.
func (uc *UseCase) RegisterParticipant(ctx context.Context, userID string, in ParticipantInput) (*Profile, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Participant != nil {
		return nil, ErrAlreadyHasRole
	}

	accepted := true
	if in.Accepted != nil {
		accepted = in.Accepted.Bool()
	}
	profile := &domain.ParticipantProfile{
		University: in.University,
		Accepted:   &accepted,
	}
	if err := uc.users.CreateParticipantProfile(ctx, userID, profile); err != nil {
		return nil, err
	}
	user.Participant = profile
	return uc.buildProfile(ctx, user)
}

func (uc *UseCase) startSession(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.tokens.TTL()),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return uc.tokens.Issue(userID, session.ID, now)
}

func (uc *UseCase) buildProfile(ctx context.Context, user *domain.User) (*Profile, error) {
	profile := &Profile{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		LastLogin:  user.LastLogin,
		DateJoined: user.DateJoined,
	}

	if user.Participant != nil {
		view := &ParticipantView{
			ID:         user.Participant.ID,
			University: user.Participant.University,
			Accepted:   user.Participant.Accepted,
			Seminars:   []SeminarHistory{},
		}
		rows, err := uc.memberships.ListByUser(ctx, user.ID, domain.RoleParticipant)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			seminar, err := uc.seminars.GetByID(ctx, row.SeminarID)
			if err != nil {
				return nil, err
			}
			view.Seminars = append(view.Seminars, SeminarHistory{
				ID:        row.ID,
				Name:      seminar.Name,
				JoinedAt:  row.JoinedAt,
				IsActive:  row.DroppedAt == nil,
				DroppedAt: row.DroppedAt,
			})
		}
		profile.Participant = view
	}

	if user.Instructor != nil {
		view := &InstructorView{
			ID:      user.Instructor.ID,
			Company: user.Instructor.Company,
			Year:    user.Instructor.Year,
		}
		membership, err := uc.memberships.FindActiveInstructorship(ctx, user.ID)
		if err == nil {
			seminar, err := uc.seminars.GetByID(ctx, membership.SeminarID)
			if err != nil {
				return nil, err
			}
			view.Charge = &Instructorship{
				ID:       membership.ID,
				Name:     seminar.Name,
				JoinedAt: membership.JoinedAt,
			}
		} else if !errors.Is(err, domain.ErrMembershipNotFound) {
			return nil, err
		}
		profile.Instructor = view
	}

	return profile, nil
}

func validateEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return domain.NewError(domain.ErrCodeInvalid, "a valid email is required")
	}
	return nil
}

func validateNames(firstName, lastName string) error {
	if (firstName == "") != (lastName == "") {
		return ErrUnpairedNames
	}
	for _, name := range []string{firstName, lastName} {
		for _, r := range name {
			if !unicode.IsLetter(r) {
				return ErrNonAlphaNames
			}
		}
	}
	return nil
}
