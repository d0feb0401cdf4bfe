package service

import "roomie-match/internal/domain"

// dealBreakerRule es una restriccion dura: si el dueño la exige y el otro
// perfil la viola, el par queda eliminado.
type dealBreakerRule struct {
	name     string
	required func(owner domain.DealBreakers) bool
	violated func(other domain.UserProfile) bool
}

var (
	ruleNoSmoking = dealBreakerRule{
		name:     "no_smoking",
		required: func(d domain.DealBreakers) bool { return d.NoSmokingRequired },
		violated: func(p domain.UserProfile) bool { return p.Lifestyle.Smoking },
	}
	ruleNoAlcohol = dealBreakerRule{
		name:     "no_alcohol",
		required: func(d domain.DealBreakers) bool { return d.NoAlcoholRequired },
		violated: func(p domain.UserProfile) bool { return p.Lifestyle.Alcohol },
	}
	// Igualdad exacta: "Non-binary" y "Prefer not to say" tampoco pasan.
	ruleFemaleOnly = dealBreakerRule{
		name:     "female_only",
		required: func(d domain.DealBreakers) bool { return d.FemaleOnly },
		violated: func(p domain.UserProfile) bool { return p.Gender != domain.GenderFemale },
	}
	ruleMaleOnly = dealBreakerRule{
		name:     "male_only",
		required: func(d domain.DealBreakers) bool { return d.MaleOnly },
		violated: func(p domain.UserProfile) bool { return p.Gender != domain.GenderMale },
	}
)

var dealBreakerRules = []dealBreakerRule{ruleNoSmoking, ruleNoAlcohol, ruleFemaleOnly, ruleMaleOnly}

func (r dealBreakerRule) violatedBy(owner, other domain.UserProfile) bool {
	return r.required(owner.DealBreakers) && r.violated(other)
}

// mutualViolation evalua la regla en ambas direcciones.
func mutualViolation(r dealBreakerRule, a, b domain.UserProfile) bool {
	return r.violatedBy(a, b) || r.violatedBy(b, a)
}

// violatesAny indica si other viola alguna de las exigencias de owner.
func violatesAny(owner, other domain.UserProfile) bool {
	for _, r := range dealBreakerRules {
		if r.violatedBy(owner, other) {
			return true
		}
	}
	return false
}

// ViolatedDealBreakers lista las reglas violadas entre dos perfiles, en ambas direcciones.
// Sirve para explicar por que un candidato no aparece.
func ViolatedDealBreakers(viewer, candidate domain.UserProfile) []string {
	out := []string{}
	for _, r := range dealBreakerRules {
		if r.violatedBy(viewer, candidate) {
			out = append(out, "viewer:"+r.name)
		}
		if r.violatedBy(candidate, viewer) {
			out = append(out, "candidate:"+r.name)
		}
	}
	return out
}
