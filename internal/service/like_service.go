package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"roomie-match/internal/domain"
	"roomie-match/internal/metrics"
	"roomie-match/internal/repository"
)

var (
	ErrSelfLike    = errors.New("cannot like own profile")
	ErrRateLimited = errors.New("rate limited")
)

type LikeOutcome struct {
	Matched bool          `json:"matched"`
	Match   *domain.Match `json:"match,omitempty"`
}

// MatchWithProfile acompaña el match con el perfil de la otra parte.
type MatchWithProfile struct {
	domain.Match
	Peer *domain.UserProfile `json:"peer,omitempty"`
}

// LikeService registra likes y crea el match cuando el like es mutuo.
type LikeService struct {
	logger   *zap.Logger
	likes    repository.LikeRepository
	matches  repository.MatchRepository
	profiles repository.ProfileRepository
	limiter  RateLimiter
	now      func() time.Time
}

func NewLikeService(
	logger *zap.Logger,
	likes repository.LikeRepository,
	matches repository.MatchRepository,
	profiles repository.ProfileRepository,
	limiter RateLimiter,
) *LikeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewMemoryRateLimiter(time.Hour, 50)
	}
	return &LikeService{
		logger:   logger,
		likes:    likes,
		matches:  matches,
		profiles: profiles,
		limiter:  limiter,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// LikeID es la clave determinista de un like dirigido.
func LikeID(fromUID, toUID string) string {
	return fromUID + "_" + toUID
}

// MatchID no depende de quien dio el like primero.
func MatchID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

func (s *LikeService) Like(ctx context.Context, fromUID, toUID string) (LikeOutcome, error) {
	fromUID, toUID = strings.TrimSpace(fromUID), strings.TrimSpace(toUID)
	if fromUID == "" || toUID == "" {
		return LikeOutcome{}, ErrProfileNotFound
	}
	if fromUID == toUID {
		return LikeOutcome{}, ErrSelfLike
	}

	if s.profiles != nil {
		// likes.from_uid referencia profiles: sin perfil propio no hay like.
		if _, err := s.loadProfile(ctx, fromUID); err != nil {
			return LikeOutcome{}, err
		}
		target, err := s.loadProfile(ctx, toUID)
		if err != nil {
			return LikeOutcome{}, err
		}
		if !target.IsActive() {
			return LikeOutcome{}, ErrProfileNotFound
		}
	}
	// La cuota se consume solo cuando el like se va a escribir.
	if !s.limiter.Allow(ctx, fromUID) {
		return LikeOutcome{}, ErrRateLimited
	}

	now := s.now()
	if err := s.likes.Create(ctx, domain.Like{
		ID:        LikeID(fromUID, toUID),
		FromUID:   fromUID,
		ToUID:     toUID,
		CreatedAt: now,
	}); err != nil {
		return LikeOutcome{}, err
	}

	reverse, err := s.likes.Exists(ctx, toUID, fromUID)
	if err != nil {
		return LikeOutcome{}, err
	}
	if !reverse {
		metrics.LikesRecorded.WithLabelValues(strconv.FormatBool(false)).Inc()
		return LikeOutcome{Matched: false}, nil
	}

	match := domain.Match{
		ID:           MatchID(fromUID, toUID),
		Participants: [2]string{fromUID, toUID},
		CreatedAt:    now,
		ChatUnlocked: true,
	}
	if err := s.matches.Upsert(ctx, match); err != nil {
		return LikeOutcome{}, err
	}
	metrics.LikesRecorded.WithLabelValues(strconv.FormatBool(true)).Inc()
	s.logger.Info("mutual match", zap.String("match_id", match.ID))
	return LikeOutcome{Matched: true, Match: &match}, nil
}

func (s *LikeService) loadProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	p, err := s.profiles.GetByUID(ctx, uid)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, ErrProfileNotFound
	}
	return p, err
}

// HasLiked indica si fromUID ya dio like a toUID.
func (s *LikeService) HasLiked(ctx context.Context, fromUID, toUID string) (bool, error) {
	return s.likes.Exists(ctx, fromUID, toUID)
}

// Matches lista los matches del usuario con el perfil de cada contraparte,
// cargados en paralelo. Un perfil borrado deja Peer en nil.
func (s *LikeService) Matches(ctx context.Context, uid string) ([]MatchWithProfile, error) {
	matches, err := s.matches.ListByParticipant(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]MatchWithProfile, len(matches))
	for i, m := range matches {
		out[i] = MatchWithProfile{Match: m}
	}
	if s.profiles == nil {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range out {
		peerUID := out[i].Participants[0]
		if peerUID == uid {
			peerUID = out[i].Participants[1]
		}
		g.Go(func() error {
			peer, err := s.profiles.GetByUID(gctx, peerUID)
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
			out[i].Peer = &peer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
