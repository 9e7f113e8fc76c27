package directory

import (
	"context"
	"testing"
	"time"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
)

type stubSeminars struct {
	seminars  []domain.Seminar
	listCalls int
}

func (s *stubSeminars) Create(ctx context.Context, seminar *domain.Seminar) error { return nil }

func (s *stubSeminars) GetByID(ctx context.Context, id string) (*domain.Seminar, error) {
	for i := range s.seminars {
		if s.seminars[i].ID == id {
			return &s.seminars[i], nil
		}
	}
	return nil, domain.ErrSeminarNotFound
}

func (s *stubSeminars) Update(ctx context.Context, seminar *domain.Seminar) error { return nil }

func (s *stubSeminars) List(ctx context.Context, filter repository.SeminarFilter) ([]domain.Seminar, error) {
	s.listCalls++
	out := make([]domain.Seminar, len(s.seminars))
	copy(out, s.seminars)
	if filter.Order == repository.OrderEarliest {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (s *stubSeminars) ExistsByName(ctx context.Context, name string) (bool, error) {
	return false, nil
}

type stubMemberships struct {
	rows []domain.Membership
}

func (s *stubMemberships) Create(ctx context.Context, membership *domain.Membership) error {
	return nil
}

func (s *stubMemberships) Get(ctx context.Context, userID, seminarID string) (*domain.Membership, error) {
	return nil, domain.ErrMembershipNotFound
}

func (s *stubMemberships) Exists(ctx context.Context, userID, seminarID string) (bool, error) {
	return false, nil
}

func (s *stubMemberships) Count(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) (int, error) {
	rows, err := s.List(ctx, seminarID, role, activeOnly)
	return len(rows), err
}

func (s *stubMemberships) List(ctx context.Context, seminarID string, role domain.Role, activeOnly bool) ([]domain.Membership, error) {
	var out []domain.Membership
	for _, row := range s.rows {
		if row.SeminarID != seminarID {
			continue
		}
		if role != "" && row.Role != role {
			continue
		}
		if activeOnly && row.DroppedAt != nil {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *stubMemberships) ListByUser(ctx context.Context, userID string, role domain.Role) ([]domain.Membership, error) {
	return nil, nil
}

func (s *stubMemberships) FindActiveInstructorship(ctx context.Context, userID string) (*domain.Membership, error) {
	return nil, domain.ErrMembershipNotFound
}

func (s *stubMemberships) SetDropped(ctx context.Context, id string, at time.Time) error {
	return nil
}

type stubUsers struct {
	byID map[string]*domain.User
}

func (s *stubUsers) Create(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUsers) Update(ctx context.Context, user *domain.User) error { return nil }

func (s *stubUsers) CreateParticipantProfile(ctx context.Context, userID string, profile *domain.ParticipantProfile) error {
	return nil
}

func (s *stubUsers) SetLastLogin(ctx context.Context, userID string, at time.Time) error {
	return nil
}

type recordingCache struct {
	entries map[string][]byte
	sets    []string
	gets    []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: make(map[string][]byte)}
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets = append(c.gets, key)
	value, ok := c.entries[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return value, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets = append(c.sets, key)
	c.entries[key] = value
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func testFixtures() (*stubSeminars, *stubMemberships, *stubUsers) {
	seminars := &stubSeminars{
		seminars: []domain.Seminar{
			{ID: "s2", Name: "rust", Capacity: 5, CreatedAt: time.Unix(20, 0)},
			{ID: "s1", Name: "go", Capacity: 5, CreatedAt: time.Unix(10, 0)},
		},
	}
	memberships := &stubMemberships{
		rows: []domain.Membership{
			{ID: "m1", UserID: "bob", SeminarID: "s1", Role: domain.RoleInstructor, JoinedAt: time.Unix(11, 0)},
			{ID: "m2", UserID: "alice", SeminarID: "s1", Role: domain.RoleParticipant, JoinedAt: time.Unix(12, 0)},
		},
	}
	users := &stubUsers{byID: map[string]*domain.User{
		"bob":   {ID: "bob", Username: "bob", Email: "bob@example.com"},
		"alice": {ID: "alice", Username: "alice", Email: "alice@example.com"},
	}}
	return seminars, memberships, users
}

func TestListCachesUnfilteredResults(t *testing.T) {
	seminars, memberships, users := testFixtures()
	cache := newRecordingCache()
	uc := New(seminars, memberships, users, cache, time.Second, nil)

	first, err := uc.List(context.Background(), repository.SeminarFilter{})
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	if len(first) != 2 || first[0].ID != "s2" {
		t.Fatalf("expected latest-first listing, got %+v", first)
	}
	if len(cache.sets) != 1 || cache.sets[0] != "seminar-list:latest" {
		t.Fatalf("expected one cache fill under the latest key, got %v", cache.sets)
	}

	second, err := uc.List(context.Background(), repository.SeminarFilter{})
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if seminars.listCalls != 1 {
		t.Fatalf("second list should be served from cache, repo hit %d times", seminars.listCalls)
	}
	if len(second) != 2 || second[0].ID != first[0].ID {
		t.Fatalf("cached listing differs: %+v", second)
	}
}

func TestListCacheKeyedByOrder(t *testing.T) {
	seminars, memberships, users := testFixtures()
	cache := newRecordingCache()
	uc := New(seminars, memberships, users, cache, time.Second, nil)

	if _, err := uc.List(context.Background(), repository.SeminarFilter{}); err != nil {
		t.Fatalf("default list: %v", err)
	}
	earliest, err := uc.List(context.Background(), repository.SeminarFilter{Order: repository.OrderEarliest})
	if err != nil {
		t.Fatalf("earliest list: %v", err)
	}

	// The earliest request must not be served the default-ordered entry.
	if earliest[0].ID != "s1" {
		t.Fatalf("expected earliest-first listing, got %+v", earliest)
	}
	if _, ok := cache.entries["seminar-list:earliest"]; !ok {
		t.Fatalf("expected a separate cache entry per order, have %v", cache.sets)
	}
}

func TestListNameFilterBypassesCache(t *testing.T) {
	seminars, memberships, users := testFixtures()
	cache := newRecordingCache()
	uc := New(seminars, memberships, users, cache, time.Second, nil)

	if _, err := uc.List(context.Background(), repository.SeminarFilter{Name: "go"}); err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(cache.gets) != 0 || len(cache.sets) != 0 {
		t.Fatalf("filtered listings must not touch the cache: gets=%v sets=%v", cache.gets, cache.sets)
	}
}

func TestGetDetailKeepsDroppedParticipantsVisible(t *testing.T) {
	seminars, memberships, users := testFixtures()
	droppedAt := time.Unix(30, 0)
	memberships.rows = append(memberships.rows, domain.Membership{
		ID: "m3", UserID: "bob2", SeminarID: "s1", Role: domain.RoleParticipant,
		JoinedAt: time.Unix(13, 0), DroppedAt: &droppedAt,
	})
	users.byID["bob2"] = &domain.User{ID: "bob2", Username: "bob2", Email: "bob2@example.com"}

	uc := New(seminars, memberships, users, nil, 0, nil)
	detail, err := uc.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if len(detail.Instructors) != 1 || detail.Instructors[0].ID != "bob" {
		t.Fatalf("unexpected instructors: %+v", detail.Instructors)
	}
	if len(detail.Participants) != 2 {
		t.Fatalf("expected dropped participant in detail, got %+v", detail.Participants)
	}
	var dropped *ParticipantInfo
	for i := range detail.Participants {
		if detail.Participants[i].ID == "bob2" {
			dropped = &detail.Participants[i]
		}
	}
	if dropped == nil || dropped.IsActive || dropped.DroppedAt == nil {
		t.Fatalf("dropped participant should be inactive with a drop time, got %+v", dropped)
	}
}

func TestListSummaryCountsActiveOnly(t *testing.T) {
	seminars, memberships, users := testFixtures()
	droppedAt := time.Unix(30, 0)
	memberships.rows = append(memberships.rows, domain.Membership{
		ID: "m3", UserID: "bob2", SeminarID: "s1", Role: domain.RoleParticipant,
		JoinedAt: time.Unix(13, 0), DroppedAt: &droppedAt,
	})
	users.byID["bob2"] = &domain.User{ID: "bob2", Username: "bob2"}

	uc := New(seminars, memberships, users, nil, 0, nil)
	summaries, err := uc.List(context.Background(), repository.SeminarFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, summary := range summaries {
		if summary.ID == "s1" && summary.ParticipantCount != 1 {
			t.Fatalf("dropped members must not count, got %d", summary.ParticipantCount)
		}
	}
}
