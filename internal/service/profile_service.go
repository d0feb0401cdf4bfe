package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"roomie-match/internal/domain"
	"roomie-match/internal/repository"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile")
)

// ProfileService coordina reglas de negocio para perfiles. Valida en el borde:
// el motor de compatibilidad nunca valida su entrada.
type ProfileService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	now      func() time.Time
}

func NewProfileService(logger *zap.Logger, profiles repository.ProfileRepository) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		logger:   logger,
		profiles: profiles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type SaveProfileInput struct {
	DisplayName       string
	PhotoURL          *string
	Gender            string
	Age               int
	School            string
	CourseYear        int
	MinBudget         int
	MaxBudget         int
	Zone              string
	PreferredRoomType string
	Lifestyle         domain.Lifestyle
	DealBreakers      domain.DealBreakers
	Status            string
	Bio               string
}

// SaveProfile crea o actualiza el perfil del usuario. created_at se conserva si ya existia.
func (s *ProfileService) SaveProfile(ctx context.Context, uid string, input SaveProfileInput) (domain.UserProfile, error) {
	if s.profiles == nil {
		return domain.UserProfile{}, errors.New("profile service not configured")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: uid is required", ErrInvalidProfile)
	}

	profile, err := buildProfile(uid, input)
	if err != nil {
		return domain.UserProfile{}, err
	}

	now := s.now()
	profile.LastActive = now
	profile.CreatedAt = now
	existing, err := s.profiles.GetByUID(ctx, uid)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.UserProfile{}, err
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return domain.UserProfile{}, err
	}
	s.logger.Info("profile saved", zap.String("uid", uid), zap.String("zone", string(profile.Zone)))
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, uid string) (domain.UserProfile, error) {
	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserProfile{}, ErrProfileNotFound
		}
		return domain.UserProfile{}, err
	}
	return profile, nil
}

// ProfileView es el perfil de otro usuario visto por el viewer. Compatibility queda
// en nil si el viewer todavia no tiene perfil.
type ProfileView struct {
	Profile       domain.UserProfile `json:"profile"`
	Compatibility *CompatibilityView `json:"compatibility,omitempty"`
}

type CompatibilityView struct {
	Eliminated   bool                  `json:"eliminated"`
	DealBreakers []string              `json:"deal_breakers"`
	Breakdown    domain.ScoreBreakdown `json:"breakdown"`
	Label        MatchLabel            `json:"label"`
}

// ViewProfile devuelve un perfil activo junto con su compatibilidad con el viewer.
func (s *ProfileService) ViewProfile(ctx context.Context, viewerUID, uid string) (ProfileView, error) {
	target, err := s.GetProfile(ctx, uid)
	if err != nil {
		return ProfileView{}, err
	}
	if !target.IsActive() && target.UID != viewerUID {
		return ProfileView{}, ErrProfileNotFound
	}
	view := ProfileView{Profile: target}
	if target.UID == viewerUID {
		return view, nil
	}

	viewer, err := s.GetProfile(ctx, viewerUID)
	if errors.Is(err, ErrProfileNotFound) {
		return view, nil
	}
	if err != nil {
		return ProfileView{}, err
	}
	breakdown := DefaultCompatibilityEngine.CalculateScore(viewer, target)
	view.Compatibility = &CompatibilityView{
		Eliminated:   DefaultCompatibilityEngine.IsEliminated(viewer, target),
		DealBreakers: ViolatedDealBreakers(viewer, target),
		Breakdown:    breakdown,
		Label:        LabelForScore(breakdown.TotalScore),
	}
	return view, nil
}

// Touch actualiza last_active, usado como desempate del ranking.
func (s *ProfileService) Touch(ctx context.Context, uid string) error {
	if err := s.profiles.TouchLastActive(ctx, uid, s.now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

func buildProfile(uid string, in SaveProfileInput) (domain.UserProfile, error) {
	name := strings.TrimSpace(in.DisplayName)
	if name == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: display_name is required", ErrInvalidProfile)
	}
	if in.Age <= 0 {
		return domain.UserProfile{}, fmt.Errorf("%w: age must be positive", ErrInvalidProfile)
	}
	if in.MinBudget < 0 || in.MaxBudget < 0 {
		return domain.UserProfile{}, fmt.Errorf("%w: budget must be non-negative", ErrInvalidProfile)
	}
	if in.MinBudget > in.MaxBudget {
		return domain.UserProfile{}, fmt.Errorf("%w: min_budget exceeds max_budget", ErrInvalidProfile)
	}
	if in.DealBreakers.FemaleOnly && in.DealBreakers.MaleOnly {
		return domain.UserProfile{}, fmt.Errorf("%w: female_only and male_only are exclusive", ErrInvalidProfile)
	}

	gender, ok := parseEnum(in.Gender, domain.Genders)
	if !ok {
		return domain.UserProfile{}, fmt.Errorf("%w: gender %q", ErrInvalidProfile, in.Gender)
	}
	zone, ok := parseEnum(in.Zone, domain.Zones)
	if !ok {
		return domain.UserProfile{}, fmt.Errorf("%w: zone %q", ErrInvalidProfile, in.Zone)
	}
	status := domain.StatusActive
	if strings.TrimSpace(in.Status) != "" {
		if status, ok = parseEnum(in.Status, domain.ProfileStatuses); !ok {
			return domain.UserProfile{}, fmt.Errorf("%w: status %q", ErrInvalidProfile, in.Status)
		}
	}
	var roomType domain.RoomType
	if strings.TrimSpace(in.PreferredRoomType) != "" {
		if roomType, ok = parseEnum(in.PreferredRoomType, domain.RoomTypes); !ok {
			return domain.UserProfile{}, fmt.Errorf("%w: preferred_room_type %q", ErrInvalidProfile, in.PreferredRoomType)
		}
	}
	lifestyle, err := normalizeLifestyle(in.Lifestyle)
	if err != nil {
		return domain.UserProfile{}, err
	}

	return domain.UserProfile{
		UID:               uid,
		DisplayName:       name,
		PhotoURL:          in.PhotoURL,
		Gender:            gender,
		Age:               in.Age,
		School:            strings.TrimSpace(in.School),
		CourseYear:        in.CourseYear,
		MinBudget:         in.MinBudget,
		MaxBudget:         in.MaxBudget,
		Zone:              zone,
		PreferredRoomType: roomType,
		Lifestyle:         lifestyle,
		DealBreakers:      in.DealBreakers,
		Status:            status,
		Bio:               strings.TrimSpace(in.Bio),
	}, nil
}

func normalizeLifestyle(l domain.Lifestyle) (domain.Lifestyle, error) {
	var ok bool
	if l.SleepTime, ok = parseEnum(string(l.SleepTime), domain.SleepTimes); !ok {
		return l, fmt.Errorf("%w: sleep_time", ErrInvalidProfile)
	}
	if l.NoiseTolerance, ok = parseEnum(string(l.NoiseTolerance), domain.NoiseTolerances); !ok {
		return l, fmt.Errorf("%w: noise_tolerance", ErrInvalidProfile)
	}
	if l.GuestFrequency, ok = parseEnum(string(l.GuestFrequency), domain.GuestFrequencies); !ok {
		return l, fmt.Errorf("%w: guest_frequency", ErrInvalidProfile)
	}
	if l.CleanlinessLevel, ok = parseEnum(string(l.CleanlinessLevel), domain.CleanlinessLevels); !ok {
		return l, fmt.Errorf("%w: cleanliness_level", ErrInvalidProfile)
	}
	if l.StudyStyle, ok = parseEnum(string(l.StudyStyle), domain.StudyStyles); !ok {
		return l, fmt.Errorf("%w: study_style", ErrInvalidProfile)
	}
	return l, nil
}

// parseEnum acepta el valor sin importar mayusculas y devuelve la forma canonica.
func parseEnum[T ~string](raw string, allowed []T) (T, bool) {
	raw = strings.TrimSpace(raw)
	for _, v := range allowed {
		if strings.EqualFold(raw, string(v)) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
