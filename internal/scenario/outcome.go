package scenario

import (
	"log/slog"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/talgya/flashpoint/internal/actor"
)

// Consequence keys understood by the outcome translation. Catalog
// actions may carry any keys; unknown ones are logged and dropped.
const (
	ConsequenceTension              = "tension"
	ConsequenceDeterrence           = "deterrence"
	ConsequenceInternationalSupport = "international_support"
	ConsequenceDomesticSupport      = "domestic_support"
	ConsequenceNegotiationPower     = "negotiation_power"
	ConsequenceTradeImpact          = "trade_impact"
)

// Outcome weights. Failures apply the action's consequences inverted at
// half strength: a failed escalation still burns standing, just less
// than a successful one builds deterrence.
const (
	successWeight = 1.0
	failureWeight = -0.5

	recentSuccessValue = 1.0
	recentFailureValue = -1.0
)

// tensionScale converts an action's tension consequence onto the
// 0..100 world tension axis.
const tensionScale = 10.0

// execute rolls an action's success, translates its consequences into
// factor deltas and world effects, and commits the outcome to the
// actor. Returns whether the action succeeded. Caller holds the lock.
func (s *Simulation) execute(a *actor.Actor, dec actor.Decision) bool {
	act := dec.Action
	succeeded := s.rng.Float64() < act.SuccessProbability

	weight := failureWeight
	if succeeded {
		weight = successWeight
	}

	out := actor.Outcome{}
	keys := maps.Keys(act.Consequences)
	sort.Strings(keys)
	for _, k := range keys {
		v := act.Consequences[k] * weight
		switch k {
		case ConsequenceTension:
			s.theater.AddTension(v * tensionScale)
			out[actor.FactorThreatLevel] += v
		case ConsequenceDeterrence:
			out[actor.FactorMilitaryStrength] += v
		case ConsequenceInternationalSupport:
			out[actor.FactorInternationalPressure] -= v
		case ConsequenceDomesticSupport:
			out[actor.FactorPublicSupport] += v
		case ConsequenceNegotiationPower:
			out[actor.FactorInternationalPressure] -= v / 2
		case ConsequenceTradeImpact:
			out[actor.FactorEconomicStatus] += v
		default:
			slog.Debug("unknown consequence key", "nation", a.Nation, "key", k)
		}
	}

	a.ApplyOutcome(act, out)

	if succeeded {
		s.recents[a.Nation] = recentSuccessValue
	} else {
		s.recents[a.Nation] = recentFailureValue
	}

	if succeeded && act.Category == actor.CategoryMilitary {
		u := s.theater.Deploy(a.Nation, kindForSeverity(act.Severity), s.cycle)
		s.appendEvent(Event{
			Cycle:       s.cycle,
			Nation:      a.Nation,
			Category:    EventCategoryDeployment,
			Description: a.Nation + " deploys a " + u.Kind.String() + " to the theater",
		})
	}

	return succeeded
}

// kindForSeverity maps an escalation's severity onto the unit class a
// successful military action puts in play.
func kindForSeverity(severity int) UnitKind {
	switch {
	case severity >= 9:
		return UnitMissileSite
	case severity >= 7:
		return UnitCarrier
	case severity >= 5:
		return UnitSubmarine
	default:
		return UnitAirbase
	}
}
