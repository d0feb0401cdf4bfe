package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"roomie-match/internal/domain"
)

func validInput() SaveProfileInput {
	return SaveProfileInput{
		DisplayName: " Wanjiru ",
		Gender:      "female",
		Age:         21,
		School:      "JKUAT",
		CourseYear:  2,
		MinBudget:   5000,
		MaxBudget:   8000,
		Zone:        "juja",
		Lifestyle: domain.Lifestyle{
			SleepTime:        "early",
			NoiseTolerance:   "Low",
			GuestFrequency:   "rare",
			CleanlinessLevel: "moderate",
			StudyStyle:       "silent",
		},
	}
}

func newTestProfileService(repo *mockProfileRepo, now time.Time) *ProfileService {
	svc := NewProfileService(zap.NewNop(), repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestProfileService_SaveNormalizes(t *testing.T) {
	repo := newMockProfileRepo()
	svc := newTestProfileService(repo, baseTime)

	p, err := svc.SaveProfile(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.DisplayName != "Wanjiru" || p.Gender != domain.GenderFemale || p.Zone != domain.ZoneJuja {
		t.Fatalf("unexpected normalization: %+v", p)
	}
	if p.Lifestyle.NoiseTolerance != domain.NoiseLow || p.Lifestyle.SleepTime != domain.SleepEarly {
		t.Fatalf("unexpected lifestyle: %+v", p.Lifestyle)
	}
	if p.Status != domain.StatusActive {
		t.Fatalf("expected default status active, got %s", p.Status)
	}
	if !p.LastActive.Equal(baseTime) || !p.CreatedAt.Equal(baseTime) {
		t.Fatalf("unexpected timestamps: %+v", p)
	}
	if _, ok := repo.profiles["u1"]; !ok {
		t.Fatalf("expected profile to be stored")
	}
}

func TestProfileService_SaveKeepsCreatedAt(t *testing.T) {
	created := baseTime.Add(-72 * time.Hour)
	repo := newMockProfileRepo(newProfile("u1", func(p *domain.UserProfile) { p.CreatedAt = created }))
	svc := newTestProfileService(repo, baseTime)

	p, err := svc.SaveProfile(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !p.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at preserved, got %s", p.CreatedAt)
	}
}

func TestProfileService_SaveRejectsInvalid(t *testing.T) {
	cases := map[string]func(*SaveProfileInput){
		"missing name":      func(in *SaveProfileInput) { in.DisplayName = "  " },
		"zero age":          func(in *SaveProfileInput) { in.Age = 0 },
		"negative budget":   func(in *SaveProfileInput) { in.MinBudget = -1 },
		"inverted budget":   func(in *SaveProfileInput) { in.MinBudget, in.MaxBudget = 9000, 8000 },
		"unknown zone":      func(in *SaveProfileInput) { in.Zone = "Westlands" },
		"unknown gender":    func(in *SaveProfileInput) { in.Gender = "robot" },
		"unknown sleep":     func(in *SaveProfileInput) { in.Lifestyle.SleepTime = "noon" },
		"unknown status":    func(in *SaveProfileInput) { in.Status = "deleted" },
		"both gender rules": func(in *SaveProfileInput) { in.DealBreakers.FemaleOnly, in.DealBreakers.MaleOnly = true, true },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			svc := newTestProfileService(newMockProfileRepo(), baseTime)
			if _, err := svc.SaveProfile(context.Background(), "u1", in); !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestProfileService_SaveAcceptsEqualBudgets(t *testing.T) {
	in := validInput()
	in.MinBudget, in.MaxBudget = 6000, 6000
	svc := newTestProfileService(newMockProfileRepo(), baseTime)
	if _, err := svc.SaveProfile(context.Background(), "u1", in); err != nil {
		t.Fatalf("expected equal budgets to be valid, got %v", err)
	}
}

func TestProfileService_GetAndTouch(t *testing.T) {
	repo := newMockProfileRepo(newProfile("u1"))
	later := baseTime.Add(time.Hour)
	svc := newTestProfileService(repo, later)

	if _, err := svc.GetProfile(context.Background(), "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if err := svc.Touch(context.Background(), "ghost"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound on touch, got %v", err)
	}
	if err := svc.Touch(context.Background(), "u1"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	p, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !p.LastActive.Equal(later) {
		t.Fatalf("expected last_active updated, got %s", p.LastActive)
	}
}

func TestProfileService_ViewProfile(t *testing.T) {
	smoker := newProfile("smoker", func(p *domain.UserProfile) { p.Lifestyle.Smoking = true })
	paused := newProfile("paused", func(p *domain.UserProfile) { p.Status = domain.StatusPaused })
	viewer := newProfile("v", func(p *domain.UserProfile) { p.DealBreakers.NoSmokingRequired = true })
	svc := newTestProfileService(newMockProfileRepo(viewer, smoker, paused, newProfile("c")), baseTime)

	view, err := svc.ViewProfile(context.Background(), "v", "c")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Compatibility == nil || view.Compatibility.Eliminated || view.Compatibility.Label.Percentage != 76 {
		t.Fatalf("unexpected compatibility: %+v", view.Compatibility)
	}

	view, err = svc.ViewProfile(context.Background(), "v", "smoker")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !view.Compatibility.Eliminated || !view.Compatibility.Breakdown.SmokingConflict || view.Compatibility.Breakdown.TotalScore != ScoreSmokingConflict {
		t.Fatalf("expected smoking conflict, got %+v", view.Compatibility)
	}
	if len(view.Compatibility.DealBreakers) != 1 || view.Compatibility.DealBreakers[0] != "viewer:no_smoking" {
		t.Fatalf("unexpected deal breakers: %v", view.Compatibility.DealBreakers)
	}

	if _, err := svc.ViewProfile(context.Background(), "v", "paused"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected paused profile hidden, got %v", err)
	}

	view, err = svc.ViewProfile(context.Background(), "newcomer", "c")
	if err != nil || view.Compatibility != nil {
		t.Fatalf("expected bare profile for viewer without profile, got %+v %v", view, err)
	}
}
