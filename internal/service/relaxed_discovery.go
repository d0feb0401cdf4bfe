package service

import "roomie-match/internal/domain"

// RelaxOrder es el orden fijo en que se relajan los filtros blandos.
var RelaxOrder = []domain.FilterKey{
	domain.FilterNoiseTolerance,
	domain.FilterGuestFrequency,
	domain.FilterSleepTime,
	domain.FilterCleanlinessLevel,
}

// RelaxedResult es la salida de la busqueda relajada.
type RelaxedResult struct {
	Results           []domain.MatchResult    `json:"results"`
	RelaxedFilterKeys []domain.FilterKey      `json:"relaxed_filter_keys"`
	RelaxedFilters    domain.DiscoveryFilters `json:"relaxed_filters"`
}

// RunRelaxedDiscovery amplia la busqueda de a un filtro por vez, en RelaxOrder,
// y se detiene en el primer paso que produce resultados. No hace backtracking.
func (e CompatibilityEngine) RunRelaxedDiscovery(
	viewer domain.UserProfile,
	candidates []domain.UserProfile,
	filters domain.DiscoveryFilters,
) RelaxedResult {
	relaxed := make(map[domain.FilterKey]bool, len(RelaxOrder))
	out := RelaxedResult{
		Results:           []domain.MatchResult{},
		RelaxedFilterKeys: make([]domain.FilterKey, 0, len(RelaxOrder)),
		RelaxedFilters:    filters,
	}

	for _, key := range RelaxOrder {
		relaxed[key] = true
		out.RelaxedFilterKeys = append(out.RelaxedFilterKeys, key)
		out.RelaxedFilters = out.RelaxedFilters.Without(key)

		out.Results = e.RunDiscovery(applyRelaxedProfile(viewer, relaxed), candidates)
		if len(out.Results) > 0 {
			break
		}
	}

	return out
}

// applyRelaxedProfile neutraliza preferencias del viewer segun los filtros relajados.
// Por ahora solo sleepTime tiene efecto en el puntaje; el resto se reporta a la UI
// sin cambiar el resultado.
func applyRelaxedProfile(viewer domain.UserProfile, relaxed map[domain.FilterKey]bool) domain.UserProfile {
	if relaxed[domain.FilterSleepTime] {
		viewer.Lifestyle.SleepTime = domain.SleepFlexible
	}
	return viewer
}
