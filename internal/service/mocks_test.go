package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"roomie-match/internal/domain"
)

type mockProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]domain.UserProfile
	listCalls int
	listErr   error
	getErr    error
}

func newMockProfileRepo(profiles ...domain.UserProfile) *mockProfileRepo {
	m := &mockProfileRepo{profiles: make(map[string]domain.UserProfile)}
	for _, p := range profiles {
		m.profiles[p.UID] = p
	}
	return m
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UID] = profile
	return nil
}

func (m *mockProfileRepo) GetByUID(_ context.Context, uid string) (domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.UserProfile{}, m.getErr
	}
	p, ok := m.profiles[uid]
	if !ok {
		return domain.UserProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

// ListCandidates imita el filtro del lado servidor: zona, status activo, recientes primero.
func (m *mockProfileRepo) ListCandidates(_ context.Context, zone domain.Zone, limit int) ([]domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.UserProfile
	for _, p := range m.profiles {
		if p.Zone == zone && p.Status == domain.StatusActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastActive.Equal(out[j].LastActive) {
			return out[i].LastActive.After(out[j].LastActive)
		}
		return out[i].UID < out[j].UID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockProfileRepo) TouchLastActive(_ context.Context, uid string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uid]
	if !ok {
		return pgx.ErrNoRows
	}
	p.LastActive = at
	m.profiles[uid] = p
	return nil
}

type mockLikeRepo struct {
	likes map[string]domain.Like
}

func newMockLikeRepo() *mockLikeRepo {
	return &mockLikeRepo{likes: make(map[string]domain.Like)}
}

func (m *mockLikeRepo) Create(_ context.Context, like domain.Like) error {
	if _, ok := m.likes[like.ID]; !ok {
		m.likes[like.ID] = like
	}
	return nil
}

func (m *mockLikeRepo) Exists(_ context.Context, fromUID, toUID string) (bool, error) {
	_, ok := m.likes[LikeID(fromUID, toUID)]
	return ok, nil
}

type mockMatchRepo struct {
	matches map[string]domain.Match
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{matches: make(map[string]domain.Match)}
}

func (m *mockMatchRepo) Upsert(_ context.Context, match domain.Match) error {
	m.matches[match.ID] = match
	return nil
}

func (m *mockMatchRepo) ListByParticipant(_ context.Context, uid string) ([]domain.Match, error) {
	var out []domain.Match
	for _, match := range m.matches {
		if match.Participants[0] == uid || match.Participants[1] == uid {
			out = append(out, match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type stubLimiter struct {
	allow bool
	calls *int
}

func (s stubLimiter) Allow(_ context.Context, _ string) bool {
	if s.calls != nil {
		*s.calls++
	}
	return s.allow
}
