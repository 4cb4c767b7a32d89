package actor

import "sort"

// Default trait weights. Both decision stages read aggression and
// caution, with different defaults: the situation modifiers treat an
// unset trait as full weight, the action scorer as half weight.
const (
	defaultModifierWeight = 1.0
	defaultScoreWeight    = 0.5
	defaultImpulsiveness  = 0.1
)

// WorldState is the per-cycle observation snapshot handed to each
// actor. Fields the caller does not populate read as zero and exert no
// influence.
type WorldState struct {
	// EnemyUnitsProximity measures how close hostile units sit to the
	// actor's assets; 0 means none in range.
	EnemyUnitsProximity float64 `json:"enemy_units_proximity"`
	// RecentActionSuccess reflects how the actor's latest action landed:
	// positive on success, negative on failure.
	RecentActionSuccess float64 `json:"recent_action_success"`
}

// Outcome carries the factor deltas produced by executing an action.
// Factors absent from the map are unchanged.
type Outcome map[Factor]float64

// Situation is a transient per-cycle assessment derived from factor
// state and world pressure. Unlike FactorState it is recomputed every
// cycle and never stored.
type Situation [FactorCount]float64

// Decision is the result of one Decide call. Irrational marks picks
// made by impulse rather than by score ranking.
type Decision struct {
	Action     Action  `json:"action"`
	Score      float64 `json:"score"`
	Irrational bool    `json:"irrational"`
}

// EvaluateSituation derives the actor's current assessment: each
// factor's stored value plus a personality-weighted world modifier,
// clamped to factor bounds. The actor's own state is not mutated.
func (a *Actor) EvaluateSituation(w WorldState) Situation {
	var sit Situation
	for f := Factor(0); f < FactorCount; f++ {
		sit[f] = clampFactor(a.state[f] + situationModifier(f, w, a.Personality))
	}
	return sit
}

// situationModifier maps world pressure onto a single factor. Threat
// rises with enemy proximity scaled by aggression; public support
// tracks recent action success scaled by populist tendency. Other
// factors take no world modifier.
func situationModifier(f Factor, w WorldState, p Personality) float64 {
	switch f {
	case FactorThreatLevel:
		return w.EnemyUnitsProximity * traitOr(p.Aggression, defaultModifierWeight)
	case FactorPublicSupport:
		return w.RecentActionSuccess * traitOr(p.PopulistTendency, defaultModifierWeight)
	default:
		return 0
	}
}

// ScoreAction rates one action against a situation. A category-specific
// base combines situation readings with personality weights, then gets
// discounted by success probability and by severity, so extreme actions
// need a strong base to surface.
func ScoreAction(act Action, sit Situation, p Personality) float64 {
	var base float64
	switch act.Category {
	case CategoryMilitary:
		base = sit[FactorMilitaryStrength]*traitOr(p.Aggression, defaultScoreWeight) -
			sit[FactorInternationalPressure]*traitOr(p.Caution, defaultScoreWeight)
	case CategoryDiplomatic:
		base = sit[FactorInternationalPressure]*traitOr(p.Caution, defaultScoreWeight) +
			sit[FactorPublicSupport]*0.5
	default:
		// Economic, cyber, propaganda and any future categories carry no
		// scoring rule yet. They stay at base 0 and still compete: an
		// action with base 0 scores 0 and loses to any positive base, but
		// remains reachable through the impulsive path.
		base = 0
	}
	return base * act.SuccessProbability * float64(11-act.Severity) / 10.0
}

// Decide runs one full decision cycle: assess the situation, score the
// whole catalog, then either take the top-ranked action or, on an
// impulsiveness roll, a uniformly random one. The second return is
// false when the catalog is empty; an actor with no actions simply sits
// the cycle out.
//
// Ranking is deterministic: equal scores keep catalog order. The only
// randomness is the impulsive pick, drawn from the actor's own seeded
// generator.
func (a *Actor) Decide(w WorldState) (Decision, bool) {
	if len(a.catalog) == 0 {
		return Decision{}, false
	}

	sit := a.EvaluateSituation(w)

	scores := make([]float64, len(a.catalog))
	order := make([]int, len(a.catalog))
	for i, act := range a.catalog {
		scores[i] = ScoreAction(act, sit, a.Personality)
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return scores[order[x]] > scores[order[y]]
	})

	if a.rng.Float64() < traitOr(a.Personality.Impulsiveness, defaultImpulsiveness) {
		j := a.rng.Intn(len(a.catalog))
		return Decision{Action: a.catalog[j], Score: scores[j], Irrational: true}, true
	}

	top := order[0]
	return Decision{Action: a.catalog[top], Score: scores[top]}, true
}

// ApplyOutcome commits an executed action: the action is appended to
// history and each outcome delta is folded into factor state under
// clamping. Factors missing from the outcome are untouched. This is
// the only mutation path for actor state.
func (a *Actor) ApplyOutcome(act Action, out Outcome) {
	a.history = append(a.history, act)
	for f, delta := range out {
		if f >= FactorCount {
			continue
		}
		a.state[f] = clampFactor(a.state[f] + delta)
	}
}
