package domain

import "time"

type ScoreBreakdown struct {
	BudgetOverlap    bool `json:"budget_overlap"`
	ZoneMatch        int  `json:"zone_match"`
	SleepMatch       int  `json:"sleep_match"`
	CleanlinessMatch int  `json:"cleanliness_match"`
	NoiseMatch       int  `json:"noise_match"`
	SmokingConflict  bool `json:"smoking_conflict"`
	AlcoholConflict  bool `json:"alcohol_conflict"`
	TotalScore       int  `json:"total_score"`
}

type MatchResult struct {
	Profile            UserProfile    `json:"profile"`
	CompatibilityScore int            `json:"compatibility_score"`
	ScoreBreakdown     ScoreBreakdown `json:"score_breakdown"`
	IsExactMatch       bool           `json:"is_exact_match"`
}

// FilterKey identifica un filtro blando que puede relajarse.
type FilterKey string

const (
	FilterNoiseTolerance   FilterKey = "noiseTolerance"
	FilterGuestFrequency   FilterKey = "guestFrequency"
	FilterSleepTime        FilterKey = "sleepTime"
	FilterCleanlinessLevel FilterKey = "cleanlinessLevel"
)

// DiscoveryFilters es el estado de filtros elegido por el usuario.
// Los punteros nil significan "sin filtro".
type DiscoveryFilters struct {
	Zone      *Zone   `json:"zone"`
	Gender    *Gender `json:"gender"`
	MinBudget *int    `json:"min_budget"`
	MaxBudget *int    `json:"max_budget"`

	SleepTime         *SleepTime        `json:"sleep_time"`
	CleanlinessLevel  *CleanlinessLevel `json:"cleanliness_level"`
	NoiseTolerance    *NoiseTolerance   `json:"noise_tolerance"`
	GuestFrequency    *GuestFrequency   `json:"guest_frequency"`
	NoSmokingRequired bool              `json:"no_smoking_required"`
	NoAlcoholRequired bool              `json:"no_alcohol_required"`
}

// Without devuelve una copia con el filtro blando indicado anulado.
func (f DiscoveryFilters) Without(key FilterKey) DiscoveryFilters {
	switch key {
	case FilterNoiseTolerance:
		f.NoiseTolerance = nil
	case FilterGuestFrequency:
		f.GuestFrequency = nil
	case FilterSleepTime:
		f.SleepTime = nil
	case FilterCleanlinessLevel:
		f.CleanlinessLevel = nil
	}
	return f
}

type Like struct {
	ID        string    `json:"id"`
	FromUID   string    `json:"from_uid"`
	ToUID     string    `json:"to_uid"`
	CreatedAt time.Time `json:"created_at"`
}

type Match struct {
	ID           string    `json:"id"`
	Participants [2]string `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	ChatUnlocked bool      `json:"chat_unlocked"`
}
