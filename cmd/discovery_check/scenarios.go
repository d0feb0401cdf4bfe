package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"roomie-match/internal/domain"
	"roomie-match/internal/service"
)

// Scenario describe un pool de candidatos y el orden esperado del feed.
type Scenario struct {
	Name         string
	Viewer       domain.UserProfile
	Candidates   []domain.UserProfile
	ExpectedUIDs []string
	ExpectRelax  bool
}

var checkTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func baseProfile(uid string, mutate ...func(*domain.UserProfile)) domain.UserProfile {
	p := domain.UserProfile{
		UID:         uid,
		DisplayName: uid,
		Gender:      domain.GenderFemale,
		Age:         21,
		MinBudget:   5000,
		MaxBudget:   8000,
		Zone:        domain.ZoneRuiru,
		Lifestyle: domain.Lifestyle{
			SleepTime:        domain.SleepEarly,
			NoiseTolerance:   domain.NoiseLow,
			GuestFrequency:   domain.GuestsRare,
			CleanlinessLevel: domain.CleanlinessModerate,
			StudyStyle:       domain.StudySilent,
		},
		Status:     domain.StatusActive,
		LastActive: checkTime,
	}
	for _, m := range mutate {
		m(&p)
	}
	return p
}

func builtinScenarios() []Scenario {
	return []Scenario{
		{
			Name:   "Orden por puntaje",
			Viewer: baseProfile("viewer"),
			Candidates: []domain.UserProfile{
				baseProfile("ruidosa", func(p *domain.UserProfile) { p.Lifestyle.NoiseTolerance = domain.NoiseHigh }),
				baseProfile("gemela"),
				baseProfile("nocturna", func(p *domain.UserProfile) {
					p.Lifestyle.SleepTime = domain.SleepLate
					p.Lifestyle.CleanlinessLevel = domain.CleanlinessStrict
				}),
			},
			ExpectedUIDs: []string{"gemela", "ruidosa", "nocturna"},
		},
		{
			Name:   "Empate resuelto por actividad",
			Viewer: baseProfile("viewer"),
			Candidates: []domain.UserProfile{
				baseProfile("vieja", func(p *domain.UserProfile) { p.LastActive = checkTime.Add(-24 * time.Hour) }),
				baseProfile("reciente", func(p *domain.UserProfile) { p.LastActive = checkTime.Add(time.Hour) }),
			},
			ExpectedUIDs: []string{"reciente", "vieja"},
		},
		{
			Name:   "Deal breakers mutuos",
			Viewer: baseProfile("viewer", func(p *domain.UserProfile) { p.DealBreakers.NoSmokingRequired = true }),
			Candidates: []domain.UserProfile{
				baseProfile("fumadora", func(p *domain.UserProfile) { p.Lifestyle.Smoking = true }),
				baseProfile("solo-hombres", func(p *domain.UserProfile) { p.DealBreakers.MaleOnly = true }),
				baseProfile("ok"),
			},
			ExpectedUIDs: []string{"ok"},
		},
		{
			Name:   "Presupuesto sin solapamiento",
			Viewer: baseProfile("viewer"),
			Candidates: []domain.UserProfile{
				baseProfile("cara", func(p *domain.UserProfile) { p.MinBudget, p.MaxBudget = 9000, 12000 }),
				baseProfile("borde", func(p *domain.UserProfile) { p.MinBudget, p.MaxBudget = 8000, 9000 }),
			},
			ExpectedUIDs: []string{"borde"},
		},
		{
			Name:   "Pool vacio dispara relajacion",
			Viewer: baseProfile("viewer"),
			Candidates: []domain.UserProfile{
				baseProfile("inactiva", func(p *domain.UserProfile) { p.Status = domain.StatusInactive }),
			},
			ExpectedUIDs: []string{},
			ExpectRelax:  true,
		},
	}
}

// Fixture es el formato del archivo JSON aceptado por -fixture.
type Fixture struct {
	ViewerUID string                  `json:"viewer_uid"`
	Filters   domain.DiscoveryFilters `json:"filters"`
	Profiles  []domain.UserProfile    `json:"profiles"`
}

func loadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var f Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

// splitViewer separa al viewer del resto del pool.
func splitViewer(profiles []domain.UserProfile, viewerUID string) (domain.UserProfile, []domain.UserProfile, error) {
	var viewer *domain.UserProfile
	pool := make([]domain.UserProfile, 0, len(profiles))
	for i := range profiles {
		if profiles[i].UID == viewerUID {
			viewer = &profiles[i]
			continue
		}
		pool = append(pool, profiles[i])
	}
	if viewer == nil {
		return domain.UserProfile{}, nil, fmt.Errorf("viewer %q not in fixture", viewerUID)
	}
	return *viewer, pool, nil
}

// runScenario devuelve los uids ordenados y si hubo relajacion.
func runScenario(engine service.CompatibilityEngine, sc Scenario) ([]string, bool) {
	results := engine.RunDiscovery(sc.Viewer, sc.Candidates)
	relaxed := false
	if len(results) == 0 {
		results = engine.RunRelaxedDiscovery(sc.Viewer, sc.Candidates, domain.DiscoveryFilters{}).Results
		relaxed = true
	}
	uids := make([]string, 0, len(results))
	for _, r := range results {
		uids = append(uids, r.Profile.UID)
	}
	return uids, relaxed
}

func formatResult(r domain.MatchResult) string {
	label := service.LabelForScore(r.CompatibilityScore)
	exact := ""
	if r.IsExactMatch {
		exact = " *"
	}
	b := r.ScoreBreakdown
	return fmt.Sprintf("%-16s %3d%% %-13s score=%d zona=%d sueno=%d limpieza=%d ruido=%d%s",
		r.Profile.UID, label.Percentage, label.Label, r.CompatibilityScore,
		b.ZoneMatch, b.SleepMatch, b.CleanlinessMatch, b.NoiseMatch, exact)
}

func sameOrder(got, want []string) bool {
	return strings.Join(got, ",") == strings.Join(want, ",")
}
