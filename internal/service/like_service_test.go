package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"roomie-match/internal/domain"
)

func newTestLikeService(profiles *mockProfileRepo, limiter RateLimiter) (*LikeService, *mockLikeRepo, *mockMatchRepo) {
	likes := newMockLikeRepo()
	matches := newMockMatchRepo()
	svc := NewLikeService(zap.NewNop(), likes, matches, profiles, limiter)
	svc.now = func() time.Time { return baseTime }
	return svc, likes, matches
}

func TestMatchID_IsOrderIndependent(t *testing.T) {
	if MatchID("b", "a") != "a_b" || MatchID("a", "b") != "a_b" {
		t.Fatalf("expected sorted match id")
	}
	if LikeID("a", "b") == LikeID("b", "a") {
		t.Fatalf("like ids must be directional")
	}
}

func TestLikeService_OneSidedLike(t *testing.T) {
	svc, likes, matches := newTestLikeService(newMockProfileRepo(newProfile("a"), newProfile("b")), nil)

	out, err := svc.Like(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if out.Matched || out.Match != nil {
		t.Fatalf("did not expect a match: %+v", out)
	}
	if _, ok := likes.likes["a_b"]; !ok {
		t.Fatalf("expected like stored")
	}
	if len(matches.matches) != 0 {
		t.Fatalf("did not expect match stored")
	}
}

func TestLikeService_MutualLikeCreatesMatch(t *testing.T) {
	svc, _, matches := newTestLikeService(newMockProfileRepo(newProfile("a"), newProfile("b")), nil)

	if _, err := svc.Like(context.Background(), "b", "a"); err != nil {
		t.Fatalf("like: %v", err)
	}
	out, err := svc.Like(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if !out.Matched || out.Match == nil {
		t.Fatalf("expected a match: %+v", out)
	}
	if out.Match.ID != "a_b" || !out.Match.ChatUnlocked {
		t.Fatalf("unexpected match: %+v", out.Match)
	}
	if _, ok := matches.matches["a_b"]; !ok {
		t.Fatalf("expected match stored")
	}

	list, err := svc.Matches(context.Background(), "b")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(list) != 1 || list[0].Peer == nil || list[0].Peer.UID != "a" {
		t.Fatalf("expected peer a, got %+v", list)
	}
}

func TestLikeService_Rejections(t *testing.T) {
	inactive := newProfile("paused", func(p *domain.UserProfile) { p.Status = domain.StatusPaused })
	profiles := newMockProfileRepo(newProfile("a"), newProfile("b"), inactive)

	svc, _, _ := newTestLikeService(profiles, nil)
	if _, err := svc.Like(context.Background(), "a", "a"); !errors.Is(err, ErrSelfLike) {
		t.Fatalf("expected ErrSelfLike, got %v", err)
	}
	if _, err := svc.Like(context.Background(), "a", "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := svc.Like(context.Background(), "a", "paused"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected inactive target to be hidden, got %v", err)
	}

	if _, err := svc.Like(context.Background(), "newcomer", "b"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected liker without profile to be rejected, got %v", err)
	}

	limited, likes, _ := newTestLikeService(profiles, stubLimiter{allow: false})
	if _, err := limited.Like(context.Background(), "a", "b"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if len(likes.likes) != 0 {
		t.Fatalf("rate limited like must not be stored")
	}
}

func TestLikeService_RejectedLikeKeepsQuota(t *testing.T) {
	inactive := newProfile("paused", func(p *domain.UserProfile) { p.Status = domain.StatusPaused })
	profiles := newMockProfileRepo(newProfile("a"), newProfile("b"), inactive)
	svc, _, _ := newTestLikeService(profiles, NewMemoryRateLimiter(time.Hour, 1))

	for _, target := range []string{"ghost", "paused", "a"} {
		if _, err := svc.Like(context.Background(), "a", target); err == nil {
			t.Fatalf("expected like to %s to fail", target)
		}
	}
	if _, err := svc.Like(context.Background(), "newcomer", "b"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	if _, err := svc.Like(context.Background(), "a", "b"); err != nil {
		t.Fatalf("expected quota intact after rejected likes, got %v", err)
	}
	if _, err := svc.Like(context.Background(), "b", "a"); err != nil {
		t.Fatalf("quota is per liker, got %v", err)
	}
	if _, err := svc.Like(context.Background(), "a", "b"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected second accepted like to hit the limit, got %v", err)
	}
}

func TestLikeService_LimiterSkippedOnRejection(t *testing.T) {
	calls := 0
	profiles := newMockProfileRepo(newProfile("a"), newProfile("b"))
	svc, _, _ := newTestLikeService(profiles, stubLimiter{allow: true, calls: &calls})

	_, _ = svc.Like(context.Background(), "a", "ghost")
	_, _ = svc.Like(context.Background(), "a", "a")
	if calls != 0 {
		t.Fatalf("limiter consulted %d times on rejected likes", calls)
	}
	if _, err := svc.Like(context.Background(), "a", "b"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one limiter call, got %d", calls)
	}
}

func TestLikeService_HasLiked(t *testing.T) {
	svc, _, _ := newTestLikeService(newMockProfileRepo(newProfile("a"), newProfile("b")), nil)

	ok, err := svc.HasLiked(context.Background(), "a", "b")
	if err != nil || ok {
		t.Fatalf("expected no like yet, got %v %v", ok, err)
	}
	if _, err := svc.Like(context.Background(), "a", "b"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if ok, _ := svc.HasLiked(context.Background(), "a", "b"); !ok {
		t.Fatalf("expected like a->b")
	}
	if ok, _ := svc.HasLiked(context.Background(), "b", "a"); ok {
		t.Fatalf("likes are directional")
	}
}

func TestLikeService_MatchesWithMissingPeer(t *testing.T) {
	profiles := newMockProfileRepo(newProfile("a"), newProfile("b"))
	svc, _, matches := newTestLikeService(profiles, nil)
	matches.matches["a_gone"] = domain.Match{ID: "a_gone", Participants: [2]string{"a", "gone"}}
	matches.matches["a_b"] = domain.Match{ID: "a_b", Participants: [2]string{"b", "a"}}

	list, err := svc.Matches(context.Background(), "a")
	if err != nil {
		t.Fatalf("matches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	if list[0].Peer == nil || list[0].Peer.UID != "b" {
		t.Fatalf("expected peer b first, got %+v", list[0])
	}
	if list[1].Peer != nil {
		t.Fatalf("expected nil peer for deleted profile")
	}
}
