package domain

import "time"

type Zone string

const (
	ZoneRuiru    Zone = "Ruiru"
	ZoneJuja     Zone = "Juja"
	ZoneKahawa   Zone = "Kahawa"
	ZoneThika    Zone = "Thika"
	ZoneRoysambu Zone = "Roysambu"
	ZoneKasarani Zone = "Kasarani"
)

// Zones lista las zonas soportadas en el orden en que se muestran.
var Zones = []Zone{ZoneRuiru, ZoneJuja, ZoneKahawa, ZoneThika, ZoneRoysambu, ZoneKasarani}

type Gender string

const (
	GenderMale           Gender = "Male"
	GenderFemale         Gender = "Female"
	GenderNonBinary      Gender = "Non-binary"
	GenderPreferNotToSay Gender = "Prefer not to say"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderNonBinary, GenderPreferNotToSay}

type SleepTime string

const (
	SleepEarly    SleepTime = "Early"
	SleepLate     SleepTime = "Late"
	SleepFlexible SleepTime = "Flexible"
)

var SleepTimes = []SleepTime{SleepEarly, SleepLate, SleepFlexible}

type NoiseTolerance string

const (
	NoiseLow    NoiseTolerance = "Low"
	NoiseMedium NoiseTolerance = "Medium"
	NoiseHigh   NoiseTolerance = "High"
)

var NoiseTolerances = []NoiseTolerance{NoiseLow, NoiseMedium, NoiseHigh}

type GuestFrequency string

const (
	GuestsRare      GuestFrequency = "Rare"
	GuestsSometimes GuestFrequency = "Sometimes"
	GuestsOften     GuestFrequency = "Often"
)

var GuestFrequencies = []GuestFrequency{GuestsRare, GuestsSometimes, GuestsOften}

type CleanlinessLevel string

const (
	CleanlinessRelaxed  CleanlinessLevel = "Relaxed"
	CleanlinessModerate CleanlinessLevel = "Moderate"
	CleanlinessStrict   CleanlinessLevel = "Strict"
)

var CleanlinessLevels = []CleanlinessLevel{CleanlinessRelaxed, CleanlinessModerate, CleanlinessStrict}

type StudyStyle string

const (
	StudySilent          StudyStyle = "Silent"
	StudyBackgroundNoise StudyStyle = "Background noise ok"
)

var StudyStyles = []StudyStyle{StudySilent, StudyBackgroundNoise}

type RoomType string

const (
	RoomSingle       RoomType = "Single Room"
	RoomBedsitter    RoomType = "Bedsitter"
	RoomOneBedroom   RoomType = "1 Bedroom"
	RoomSharedHostel RoomType = "Shared Hostel"
)

var RoomTypes = []RoomType{RoomSingle, RoomBedsitter, RoomOneBedroom, RoomSharedHostel}

type ProfileStatus string

const (
	StatusActive   ProfileStatus = "active"
	StatusInactive ProfileStatus = "inactive"
	StatusPaused   ProfileStatus = "paused"
)

var ProfileStatuses = []ProfileStatus{StatusActive, StatusInactive, StatusPaused}

type Lifestyle struct {
	SleepTime        SleepTime        `json:"sleep_time"`
	NoiseTolerance   NoiseTolerance   `json:"noise_tolerance"`
	GuestFrequency   GuestFrequency   `json:"guest_frequency"`
	CleanlinessLevel CleanlinessLevel `json:"cleanliness_level"`
	StudyStyle       StudyStyle       `json:"study_style"`
	Smoking          bool             `json:"smoking"`
	Alcohol          bool             `json:"alcohol"`
}

// DealBreakers son restricciones duras que el dueño del perfil impone a los candidatos.
type DealBreakers struct {
	NoSmokingRequired bool `json:"no_smoking_required"`
	NoAlcoholRequired bool `json:"no_alcohol_required"`
	MustHaveWiFi      bool `json:"must_have_wifi"` // Se guarda, no participa del matching
	FemaleOnly        bool `json:"female_only"`
	MaleOnly          bool `json:"male_only"`
}

type UserProfile struct {
	UID               string        `json:"uid"`
	DisplayName       string        `json:"display_name"`
	PhotoURL          *string       `json:"photo_url,omitempty"`
	Gender            Gender        `json:"gender"`
	Age               int           `json:"age"`
	School            string        `json:"school"`
	CourseYear        int           `json:"course_year"`
	MinBudget         int           `json:"min_budget"`
	MaxBudget         int           `json:"max_budget"`
	Zone              Zone          `json:"zone"`
	PreferredRoomType RoomType      `json:"preferred_room_type,omitempty"`
	Lifestyle         Lifestyle     `json:"lifestyle"`
	DealBreakers      DealBreakers  `json:"deal_breakers"`
	Status            ProfileStatus `json:"status"`
	LastActive        time.Time     `json:"last_active"`
	CreatedAt         time.Time     `json:"created_at"`
	Bio               string        `json:"bio,omitempty"`
}

// Budget devuelve el rango de presupuesto del perfil.
func (p UserProfile) Budget() BudgetRange {
	return BudgetRange{Min: p.MinBudget, Max: p.MaxBudget}
}

// IsActive indica si el perfil puede aparecer como candidato.
func (p UserProfile) IsActive() bool {
	return p.Status == StatusActive
}

// BudgetRange es un intervalo cerrado de presupuesto mensual (KES).
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
