package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/seminarhub/backend/domain"
	"github.com/seminarhub/backend/repository"
)

// DefaultListTTL bounds how stale a cached seminar listing may be.
const DefaultListTTL = 10 * time.Second

// MemberInfo is the per-user projection embedded in seminar views.
type MemberInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// ParticipantInfo extends MemberInfo with drop state; dropped members stay
// visible in the detail view.
type ParticipantInfo struct {
	MemberInfo
	IsActive  bool       `json:"is_active"`
	DroppedAt *time.Time `json:"dropped_at"`
}

// SeminarSummary is the list-view projection, intentionally lighter than
// the detail view.
type SeminarSummary struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description,omitempty"`
	Instructors      []MemberInfo `json:"instructors"`
	ParticipantCount int          `json:"participant_count"`
}

// SeminarDetail is the full projection returned by reads and by every
// accepted mutation.
type SeminarDetail struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Capacity     int               `json:"capacity"`
	Count        int               `json:"count"`
	Time         domain.ClockTime  `json:"time"`
	StartDate    *domain.Date      `json:"start_date"`
	Online       bool              `json:"online"`
	Instructors  []MemberInfo      `json:"instructors"`
	Participants []ParticipantInfo `json:"participants"`
}

type UseCase struct {
	seminars    repository.SeminarRepository
	memberships repository.MembershipRepository
	users       repository.UserRepository
	cache       repository.Cache
	listTTL     time.Duration
	logger      *zap.Logger
}

// New builds the directory use case. cache may be nil to disable list
// caching entirely (tests do this for determinism).
func New(
	seminars repository.SeminarRepository,
	memberships repository.MembershipRepository,
	users repository.UserRepository,
	cache repository.Cache,
	listTTL time.Duration,
	logger *zap.Logger,
) *UseCase {
	if listTTL <= 0 {
		listTTL = DefaultListTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		seminars:    seminars,
		memberships: memberships,
		users:       users,
		cache:       cache,
		listTTL:     listTTL,
		logger:      logger,
	}
}

// List returns seminar summaries matching the filter. Unfiltered listings
// are cached for a short TTL under a key derived from the effective order,
// so an order=earliest request is never served a default-ordered entry.
func (uc *UseCase) List(ctx context.Context, filter repository.SeminarFilter) ([]SeminarSummary, error) {
	cacheable := uc.cache != nil && filter.Name == ""
	key := listCacheKey(filter)

	if cacheable {
		if cached, err := uc.cache.Get(ctx, key); err == nil {
			var summaries []SeminarSummary
			if err := json.Unmarshal(cached, &summaries); err == nil {
				return summaries, nil
			}
			uc.logger.Warn("discarding undecodable list cache entry", zap.String("key", key))
		} else if err != repository.ErrCacheMiss {
			uc.logger.Warn("seminar list cache read failed", zap.Error(err))
		}
	}

	seminars, err := uc.seminars.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]SeminarSummary, 0, len(seminars))
	for i := range seminars {
		summary, err := uc.buildSummary(ctx, &seminars[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	if cacheable {
		if payload, err := json.Marshal(summaries); err == nil {
			if err := uc.cache.Set(ctx, key, payload, uc.listTTL); err != nil {
				uc.logger.Warn("seminar list cache write failed", zap.Error(err))
			}
		}
	}

	return summaries, nil
}

// Get returns the detail projection for one seminar.
func (uc *UseCase) Get(ctx context.Context, seminarID string) (*SeminarDetail, error) {
	seminar, err := uc.seminars.GetByID(ctx, seminarID)
	if err != nil {
		return nil, err
	}
	return uc.buildDetail(ctx, seminar)
}

func (uc *UseCase) buildSummary(ctx context.Context, seminar *domain.Seminar) (*SeminarSummary, error) {
	instructors, err := uc.memberList(ctx, seminar.ID, domain.RoleInstructor)
	if err != nil {
		return nil, err
	}
	participantCount, err := uc.memberships.Count(ctx, seminar.ID, domain.RoleParticipant, true)
	if err != nil {
		return nil, err
	}
	return &SeminarSummary{
		ID:               seminar.ID,
		Name:             seminar.Name,
		Description:      seminar.Description,
		Instructors:      instructors,
		ParticipantCount: participantCount,
	}, nil
}

func (uc *UseCase) buildDetail(ctx context.Context, seminar *domain.Seminar) (*SeminarDetail, error) {
	instructors, err := uc.memberList(ctx, seminar.ID, domain.RoleInstructor)
	if err != nil {
		return nil, err
	}

	participantRows, err := uc.memberships.List(ctx, seminar.ID, domain.RoleParticipant, false)
	if err != nil {
		return nil, err
	}
	users, err := uc.usersByID(ctx, participantRows)
	if err != nil {
		return nil, err
	}
	participants := make([]ParticipantInfo, 0, len(participantRows))
	for _, row := range participantRows {
		user, ok := users[row.UserID]
		if !ok {
			continue
		}
		participants = append(participants, ParticipantInfo{
			MemberInfo: memberInfo(user, row.JoinedAt),
			IsActive:   row.DroppedAt == nil,
			DroppedAt:  row.DroppedAt,
		})
	}

	return &SeminarDetail{
		ID:           seminar.ID,
		Name:         seminar.Name,
		Capacity:     seminar.Capacity,
		Count:        seminar.Count,
		Time:         seminar.Time,
		StartDate:    seminar.StartDate,
		Online:       seminar.Online,
		Instructors:  instructors,
		Participants: participants,
	}, nil
}

func (uc *UseCase) memberList(ctx context.Context, seminarID string, role domain.Role) ([]MemberInfo, error) {
	rows, err := uc.memberships.List(ctx, seminarID, role, false)
	if err != nil {
		return nil, err
	}
	users, err := uc.usersByID(ctx, rows)
	if err != nil {
		return nil, err
	}
	members := make([]MemberInfo, 0, len(rows))
	for _, row := range rows {
		user, ok := users[row.UserID]
		if !ok {
			continue
		}
		members = append(members, memberInfo(user, row.JoinedAt))
	}
	return members, nil
}

func (uc *UseCase) usersByID(ctx context.Context, rows []domain.Membership) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User, len(rows))
	for _, row := range rows {
		if _, ok := users[row.UserID]; ok {
			continue
		}
		user, err := uc.users.GetByID(ctx, row.UserID)
		if err != nil {
			return nil, err
		}
		users[row.UserID] = user
	}
	return users, nil
}

func memberInfo(user *domain.User, joinedAt time.Time) MemberInfo {
	return MemberInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		JoinedAt:  joinedAt,
	}
}

func listCacheKey(filter repository.SeminarFilter) string {
	order := "latest"
	if filter.Order == repository.OrderEarliest {
		order = repository.OrderEarliest
	}
	return fmt.Sprintf("seminar-list:%s", order)
}
