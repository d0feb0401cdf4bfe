package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"roomie-match/internal/domain"
	"roomie-match/internal/metrics"
	"roomie-match/internal/repository"
)

// DiscoveryMatch es un resultado del motor listo para mostrar. El orden de la lista
// es el del motor y no se vuelve a ordenar.
type DiscoveryMatch struct {
	domain.MatchResult
	Label MatchLabel `json:"label"`
}

type DiscoveryResult struct {
	Zone              domain.Zone             `json:"zone"`
	Matches           []DiscoveryMatch        `json:"matches"`
	CandidateCount    int                     `json:"candidate_count"`
	Relaxed           bool                    `json:"relaxed"`
	RelaxedFilterKeys []domain.FilterKey      `json:"relaxed_filter_keys"`
	Filters           domain.DiscoveryFilters `json:"filters"`
	GeneratedAt       time.Time               `json:"generated_at"`
}

type DiscoveryOptions struct {
	CandidateLimit int
	CacheTTL       time.Duration
}

// DiscoveryService conecta el motor de compatibilidad con la capa de datos.
type DiscoveryService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	engine   CompatibilityEngine
	cache    DiscoveryCache
	opts     DiscoveryOptions
}

func NewDiscoveryService(logger *zap.Logger, profiles repository.ProfileRepository, cache DiscoveryCache, opts DiscoveryOptions) *DiscoveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = 200
	}
	return &DiscoveryService{
		logger:   logger,
		profiles: profiles,
		engine:   DefaultCompatibilityEngine,
		cache:    cache,
		opts:     opts,
	}
}

// Discover arma el feed del viewer. Cero resultados no es un error: dispara la
// busqueda relajada, que tambien puede terminar vacia.
func (s *DiscoveryService) Discover(ctx context.Context, viewerUID string, filters domain.DiscoveryFilters) (DiscoveryResult, error) {
	if s.profiles == nil {
		return DiscoveryResult{}, errors.New("discovery service not configured")
	}
	start := time.Now()

	viewer, err := s.profiles.GetByUID(ctx, viewerUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DiscoveryResult{}, ErrProfileNotFound
		}
		return DiscoveryResult{}, fmt.Errorf("load viewer: %w", err)
	}

	zone := viewer.Zone
	if filters.Zone != nil && *filters.Zone != "" {
		zone = *filters.Zone
	}

	key := discoveryCacheKey(viewer, zone, filters)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("discovery cache get failed", zap.Error(err))
		} else if ok {
			metrics.DiscoveryDuration.WithLabelValues("hit").Observe(time.Since(start).Seconds())
			return cached, nil
		}
	}

	candidates, err := s.profiles.ListCandidates(ctx, zone, s.opts.CandidateLimit)
	if err != nil {
		return DiscoveryResult{}, fmt.Errorf("list candidates: %w", err)
	}

	result := s.rank(viewer, candidates, filters)
	result.Zone = zone
	result.GeneratedAt = time.Now().UTC()

	outcome := metrics.OutcomeStrict
	switch {
	case len(result.Matches) == 0:
		outcome = metrics.OutcomeEmpty
	case result.Relaxed:
		outcome = metrics.OutcomeRelaxed
	}
	metrics.DiscoveryRuns.WithLabelValues(outcome).Inc()
	metrics.DiscoveryResults.Observe(float64(len(result.Matches)))

	s.logger.Info("discovery",
		zap.String("viewer", viewer.UID),
		zap.String("zone", string(zone)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(result.Matches)),
		zap.Bool("relaxed", result.Relaxed),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.opts.CacheTTL); err != nil {
			s.logger.Warn("discovery cache set failed", zap.Error(err))
		}
	}

	metrics.DiscoveryDuration.WithLabelValues("miss").Observe(time.Since(start).Seconds())
	return result, nil
}

func (s *DiscoveryService) rank(viewer domain.UserProfile, candidates []domain.UserProfile, filters domain.DiscoveryFilters) DiscoveryResult {
	out := DiscoveryResult{
		CandidateCount:    len(candidates),
		RelaxedFilterKeys: []domain.FilterKey{},
		Filters:           filters,
	}

	results := s.engine.RunDiscovery(viewer, candidates)
	if len(results) == 0 {
		relaxed := s.engine.RunRelaxedDiscovery(viewer, candidates, filters)
		results = relaxed.Results
		out.Relaxed = true
		out.RelaxedFilterKeys = relaxed.RelaxedFilterKeys
		out.Filters = relaxed.RelaxedFilters
	}

	out.Matches = make([]DiscoveryMatch, 0, len(results))
	for _, r := range results {
		out.Matches = append(out.Matches, DiscoveryMatch{
			MatchResult: r,
			Label:       LabelForScore(r.CompatibilityScore),
		})
	}
	return out
}

// discoveryCacheKey versiona la entrada: uid + zona + hash del perfil y filtros.
// LastActive no entra en el hash para que un ping no invalide el cache.
func discoveryCacheKey(viewer domain.UserProfile, zone domain.Zone, filters domain.DiscoveryFilters) string {
	viewer.LastActive = time.Time{}
	payload, _ := json.Marshal(struct {
		Viewer  domain.UserProfile      `json:"viewer"`
		Filters domain.DiscoveryFilters `json:"filters"`
	}{viewer, filters})
	return viewer.UID + ":" + string(zone) + ":" + strconv.FormatUint(xxhash.Sum64(payload), 16)
}
