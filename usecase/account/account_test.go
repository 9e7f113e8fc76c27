package account

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
)

type memUsers struct {
	byID map[string]*domain.User
	seq  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]*domain.User)}
}

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.byID {
		if existing.Username == user.Username {
			return domain.NewError(domain.ErrCodeConflict, "username already taken")
		}
	}
	m.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", m.seq)
	}
	user.DateJoined = time.Unix(int64(m.seq), 0)
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range m.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) Update(ctx context.Context, user *domain.User) error {
	m.byID[user.ID] = user
	return nil
}

func (m *memUsers) CreateParticipantProfile(ctx context.Context, userID string, profile *domain.ParticipantProfile) error {
	user, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Participant = profile
	return nil
}

func (m *memUsers) SetLastLogin(ctx context.Context, userID string, at time.Time) error {
	user, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.LastLogin = &at
	return nil
}

type noMemberships struct{}

func (noMemberships) Create(ctx context.Context, membership *domain.Membership) error { return nil }

func (noMemberships) Get(ctx context.Context, userID, seminarID string) (*domain.Membership, error) {
	return nil, domain.ErrMembershipNotFound
}

func (noMemberships) Exists(ctx context.Context, userID, seminarID string) (bool, error) {
	return false, nil
}

func (noMemberships) Count(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) (int, error) {
	return 0, nil
}

func (noMemberships) List(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) ([]domain.Membership, error) {
	return nil, nil
}

func (noMemberships) ListByUser(ctx context.Context, userID string, role domain.Role) ([]domain.Membership, error) {
	return nil, nil
}

func (noMemberships) FindActiveInstructorship(ctx context.Context, userID string) (*domain.Membership, error) {
	return nil, domain.ErrMembershipNotFound
}

func (noMemberships) SetDropped(ctx context.Context, id string, at time.Time) error { return nil }

type noSeminars struct{}

func (noSeminars) Create(ctx context.Context, seminar *domain.Seminar) error { return nil }

func (noSeminars) GetByID(ctx context.Context, id string) (*domain.Seminar, error) {
	return nil, domain.ErrSeminarNotFound
}

func (noSeminars) Update(ctx context.Context, seminar *domain.Seminar) error { return nil }

func (noSeminars) List(ctx context.Context, filter repository.SeminarFilter) ([]domain.Seminar, error) {
	return nil, nil
}

func (noSeminars) ExistsByName(ctx context.Context, name string) (bool, error) { return false, nil }

type memSessions struct {
	byID map[string]*domain.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: make(map[string]*domain.Session)}
}

func (m *memSessions) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *memSessions) Save(ctx context.Context, session *domain.Session) error {
	m.byID[session.ID] = session
	return nil
}

func (m *memSessions) Delete(ctx context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

func newTestUseCase() (*UseCase, *memUsers, *memSessions) {
	users := newMemUsers()
	sessions := newMemSessions()
	tokens := NewTokenManager("test-secret", "test", time.Hour)
	uc := New(users, noMemberships{}, noSeminars{}, sessions, tokens, nil)
	return uc, users, sessions
}

func participantInput(username string) RegisterInput {
	return RegisterInput{
		Username:   username,
		Email:      username + "@example.com",
		Password:   "hunter22",
		Role:       domain.RoleParticipant,
		University: "somewhere",
	}
}

func TestRegisterValidation(t *testing.T) {
	uc, _, _ := newTestUseCase()
	year := -1

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "blank username", in: func() RegisterInput { in := participantInput(" "); return in }()},
		{name: "missing password", in: func() RegisterInput { in := participantInput("a"); in.Password = ""; return in }()},
		{name: "bad email", in: func() RegisterInput { in := participantInput("b"); in.Email = "nope"; return in }()},
		{name: "bad role", in: func() RegisterInput { in := participantInput("c"); in.Role = "admin"; return in }()},
		{name: "unpaired names", in: func() RegisterInput { in := participantInput("d"); in.FirstName = "Ada"; return in }()},
		{name: "numeric names", in: func() RegisterInput {
			in := participantInput("e")
			in.FirstName, in.LastName = "Ada1", "Lovelace"
			return in
		}()},
		{name: "negative year", in: func() RegisterInput {
			in := participantInput("f")
			in.Role = domain.RoleInstructor
			in.Year = &year
			return in
		}()},
	}

	for _, tc := range tests {
		_, _, err := uc.Register(context.Background(), tc.in)
		var domErr *domain.Error
		if !errors.As(err, &domErr) || domErr.Code != domain.ErrCodeInvalid {
			t.Fatalf("%s: expected invalid error, got %v", tc.name, err)
		}
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	uc, users, sessions := newTestUseCase()

	profile, token, err := uc.Register(context.Background(), participantInput("ada"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token on registration")
	}
	if profile.Participant == nil || profile.Participant.Accepted == nil || !*profile.Participant.Accepted {
		t.Fatalf("participant profile should exist with accepted defaulting to true, got %+v", profile.Participant)
	}
	if len(sessions.byID) != 1 {
		t.Fatalf("expected one open session, got %d", len(sessions.byID))
	}

	stored, err := users.GetByUsername(context.Background(), "ada")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.PasswordHash == "hunter22" {
		t.Fatalf("password must not be stored in the clear")
	}

	logged, token2, err := uc.Login(context.Background(), "ada", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token2 == "" || logged.LastLogin == nil {
		t.Fatalf("login should issue a token and stamp last_login")
	}

	if _, _, err := uc.Login(context.Background(), "ada", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password: expected ErrBadCredentials, got %v", err)
	}
	if _, _, err := uc.Login(context.Background(), "ghost", "hunter22"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown user: expected ErrBadCredentials, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	uc, _, sessions := newTestUseCase()

	if _, _, err := uc.Register(context.Background(), participantInput("ada")); err != nil {
		t.Fatalf("register: %v", err)
	}
	var sessionID string
	for id := range sessions.byID {
		sessionID = id
	}

	if err := uc.Logout(context.Background(), sessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.byID) != 0 {
		t.Fatalf("session should be gone after logout")
	}
}

func TestRegisterInstructorProfile(t *testing.T) {
	uc, _, _ := newTestUseCase()
	year := 2002

	in := RegisterInput{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "hunter22",
		Role:     domain.RoleInstructor,
		Company:  "navy",
		Year:     &year,
	}
	profile, _, err := uc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.Instructor == nil || profile.Instructor.Company != "navy" || *profile.Instructor.Year != 2002 {
		t.Fatalf("unexpected instructor view: %+v", profile.Instructor)
	}
	if profile.Participant != nil {
		t.Fatalf("instructor registration must not create a participant profile")
	}
}

func TestRegisterParticipantProfile(t *testing.T) {
	uc, _, _ := newTestUseCase()

	profile, _, err := uc.Register(context.Background(), RegisterInput{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "hunter22",
		Role:     domain.RoleInstructor,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	withPart, err := uc.RegisterParticipant(context.Background(), profile.ID, ParticipantInput{University: "harvard"})
	if err != nil {
		t.Fatalf("add participant profile: %v", err)
	}
	if withPart.Participant == nil || withPart.Participant.University != "harvard" {
		t.Fatalf("unexpected participant view: %+v", withPart.Participant)
	}
	if withPart.Participant.Accepted == nil || !*withPart.Participant.Accepted {
		t.Fatalf("accepted should default to true, got %+v", withPart.Participant.Accepted)
	}

	if _, err := uc.RegisterParticipant(context.Background(), profile.ID, ParticipantInput{}); !errors.Is(err, ErrAlreadyHasRole) {
		t.Fatalf("expected ErrAlreadyHasRole, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	uc, _, _ := newTestUseCase()

	profile, _, err := uc.Register(context.Background(), participantInput("ada"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	email := "new@example.com"
	university := "mit"
	updated, err := uc.Update(context.Background(), profile.ID, UpdateInput{
		Email:      &email,
		University: &university,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != email || updated.Participant.University != university {
		t.Fatalf("update not applied: %+v", updated)
	}

	bad := "not-an-email"
	if _, err := uc.Update(context.Background(), profile.ID, UpdateInput{Email: &bad}); err == nil {
		t.Fatalf("expected email validation failure")
	}
}
