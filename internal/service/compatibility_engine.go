package service

import (
	"math"
	"sort"

	"roomie-match/internal/domain"
)

// Pesos del puntaje de compatibilidad. GuestMatch y StudyMatch estan reservados:
// no se calculan todavia pero cuentan para MaxScore.
const (
	ScoreZoneMatch        = 20
	ScoreSleepMatch       = 15
	ScoreCleanlinessMatch = 20
	ScoreNoiseMatch       = 10
	ScoreGuestMatch       = 10
	ScoreStudyMatch       = 10
	ScoreSmokingConflict  = -100
	ScoreAlcoholConflict  = -100
)

// MaxScore es la suma de todos los pesos positivos, incluidos los reservados.
const MaxScore = ScoreZoneMatch + ScoreSleepMatch + ScoreCleanlinessMatch + ScoreNoiseMatch + ScoreGuestMatch + ScoreStudyMatch

// ExactMatchThreshold marca un resultado como "match exacto".
const ExactMatchThreshold = 60

// CompatibilityEngine agrupa la logica pura de eliminacion, puntaje y ranking.
// No guarda estado: cada llamada depende solo de sus argumentos.
type CompatibilityEngine struct{}

// DefaultCompatibilityEngine permite uso directo sin instanciar.
var DefaultCompatibilityEngine = CompatibilityEngine{}

// BudgetOverlaps evalua la interseccion de dos intervalos cerrados.
// Rangos que se tocan en un extremo se consideran solapados.
func BudgetOverlaps(a, b domain.BudgetRange) bool {
	return a.Min <= b.Max && a.Max >= b.Min
}

// IsEliminated indica si el par queda descartado por presupuesto o por los
// deal breakers de cualquiera de las dos partes.
func (CompatibilityEngine) IsEliminated(viewer, candidate domain.UserProfile) bool {
	if !BudgetOverlaps(viewer.Budget(), candidate.Budget()) {
		return true
	}
	return violatesAny(viewer, candidate) || violatesAny(candidate, viewer)
}

// CalculateScore calcula el desglose de compatibilidad del par.
func (CompatibilityEngine) CalculateScore(viewer, candidate domain.UserProfile) domain.ScoreBreakdown {
	if !BudgetOverlaps(viewer.Budget(), candidate.Budget()) {
		return domain.ScoreBreakdown{BudgetOverlap: false}
	}

	if mutualViolation(ruleNoSmoking, viewer, candidate) {
		return domain.ScoreBreakdown{
			BudgetOverlap:   true,
			SmokingConflict: true,
			TotalScore:      ScoreSmokingConflict,
		}
	}

	if mutualViolation(ruleNoAlcohol, viewer, candidate) {
		return domain.ScoreBreakdown{
			BudgetOverlap:   true,
			AlcoholConflict: true,
			TotalScore:      ScoreAlcoholConflict,
		}
	}

	b := domain.ScoreBreakdown{BudgetOverlap: true}

	if viewer.Zone == candidate.Zone {
		b.ZoneMatch = ScoreZoneMatch
	}

	vs, cs := viewer.Lifestyle.SleepTime, candidate.Lifestyle.SleepTime
	if vs == cs || vs == domain.SleepFlexible || cs == domain.SleepFlexible {
		b.SleepMatch = ScoreSleepMatch
	}

	if viewer.Lifestyle.CleanlinessLevel == candidate.Lifestyle.CleanlinessLevel {
		b.CleanlinessMatch = ScoreCleanlinessMatch
	}

	if viewer.Lifestyle.NoiseTolerance == candidate.Lifestyle.NoiseTolerance {
		b.NoiseMatch = ScoreNoiseMatch
	}

	b.TotalScore = b.ZoneMatch + b.SleepMatch + b.CleanlinessMatch + b.NoiseMatch
	return b
}

// RunDiscovery elimina, puntua y ordena el pool de candidatos para el viewer.
// Siempre devuelve un slice no nil.
func (e CompatibilityEngine) RunDiscovery(viewer domain.UserProfile, candidates []domain.UserProfile) []domain.MatchResult {
	results := make([]domain.MatchResult, 0, len(candidates))

	for _, candidate := range candidates {
		if candidate.UID == viewer.UID {
			continue
		}
		if !candidate.IsActive() {
			continue
		}
		if e.IsEliminated(viewer, candidate) {
			continue
		}

		breakdown := e.CalculateScore(viewer, candidate)
		// Los conflictos ya fueron eliminados arriba; se mantiene como red de seguridad.
		if breakdown.TotalScore < 0 {
			continue
		}

		results = append(results, domain.MatchResult{
			Profile:            candidate,
			CompatibilityScore: breakdown.TotalScore,
			ScoreBreakdown:     breakdown,
			IsExactMatch:       breakdown.TotalScore >= ExactMatchThreshold,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CompatibilityScore != results[j].CompatibilityScore {
			return results[i].CompatibilityScore > results[j].CompatibilityScore
		}
		return results[i].Profile.LastActive.After(results[j].Profile.LastActive)
	})

	return results
}

// CompatibilityPercentage normaliza un puntaje contra MaxScore.
// Redondea con medio hacia arriba y limita el resultado a 0..100.
func CompatibilityPercentage(score int) int {
	pct := int(math.Floor(float64(score)/float64(MaxScore)*100 + 0.5))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// MatchLabel describe un puntaje para la capa de presentacion.
type MatchLabel struct {
	Label      string `json:"label"`
	Color      string `json:"color"`
	Percentage int    `json:"percentage"`
}

// LabelForScore traduce un puntaje a etiqueta y color.
func LabelForScore(score int) MatchLabel {
	pct := CompatibilityPercentage(score)
	switch {
	case pct >= 80:
		return MatchLabel{Label: "Great Match", Color: "#2cb67d", Percentage: pct}
	case pct >= 60:
		return MatchLabel{Label: "Good Match", Color: "#5bc4bf", Percentage: pct}
	case pct >= 40:
		return MatchLabel{Label: "Decent Match", Color: "#e8c73a", Percentage: pct}
	default:
		return MatchLabel{Label: "Some Overlap", Color: "#a7a9be", Percentage: pct}
	}
}
