// Package actor provides the nation-state decision model: personality
// weights, bounded factor state, per-nation action catalogs, and the
// decision pipeline that picks one action per cycle.
// See design doc Sections 2 and 3.
package actor

import (
	"errors"
	"math/rand"
)

// Factor is one axis of an actor's situational assessment.
type Factor uint8

const (
	FactorMilitaryStrength Factor = iota
	FactorPublicSupport
	FactorInternationalPressure
	FactorEconomicStatus
	FactorThreatLevel
)

// FactorCount is the total number of decision factors.
const FactorCount = 5

var factorNames = [FactorCount]string{
	"military_strength",
	"public_support",
	"international_pressure",
	"economic_status",
	"threat_level",
}

// String returns the factor's wire name, as used in outcome keys,
// journal columns, and API payloads.
func (f Factor) String() string {
	if int(f) < len(factorNames) {
		return factorNames[f]
	}
	return "unknown"
}

// Factor state bounds. Every factor value stays within [FactorMin, FactorMax];
// new actors start at FactorNeutral.
const (
	FactorMin     = 0.0
	FactorMax     = 10.0
	FactorNeutral = 5.0
)

// FactorState holds one bounded value per factor, indexed by Factor.
type FactorState [FactorCount]float64

// NewFactorState returns a state with every factor at the neutral midpoint.
func NewFactorState() FactorState {
	var fs FactorState
	for i := range fs {
		fs[i] = FactorNeutral
	}
	return fs
}

// Map returns the state keyed by factor wire name, for observers.
func (fs FactorState) Map() map[string]float64 {
	m := make(map[string]float64, FactorCount)
	for f := Factor(0); f < FactorCount; f++ {
		m[f.String()] = fs[f]
	}
	return m
}

// clampFactor bounds a factor value to [FactorMin, FactorMax].
func clampFactor(v float64) float64 {
	if v < FactorMin {
		return FactorMin
	}
	if v > FactorMax {
		return FactorMax
	}
	return v
}

// Category classifies an action.
type Category uint8

const (
	CategoryMilitary   Category = iota
	CategoryDiplomatic          // De-escalation, negotiation, alliances
	CategoryEconomic            // Sanctions, trade deals, aid
	CategoryCyber               // Intrusion, disruption, influence ops
	CategoryPropaganda          // Statements, broadcasts, domestic messaging
)

var categoryNames = [...]string{
	"military",
	"diplomatic",
	"economic",
	"cyber",
	"propaganda",
}

// String returns the category's wire name.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// ParseCategory resolves a wire name back to its Category.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if s == name {
			return Category(i), nil
		}
	}
	return 0, errors.New("unknown action category " + s)
}

// Personality holds an actor's decision weights. Weights are
// unconstrained reals; negative and >1 values are legal. Optional
// traits are pointers: nil means unset, and each read site applies its
// documented default (see behavior.go).
type Personality struct {
	Aggression       *float64 `json:"aggression,omitempty" yaml:"aggression,omitempty"`
	Caution          *float64 `json:"caution,omitempty" yaml:"caution,omitempty"`
	Impulsiveness    *float64 `json:"impulsiveness,omitempty" yaml:"impulsiveness,omitempty"`
	PopulistTendency *float64 `json:"populist_tendency,omitempty" yaml:"populist_tendency,omitempty"`
}

// Trait wraps a literal weight for use in Personality fields.
func Trait(v float64) *float64 {
	return &v
}

// Clone returns a copy with re-allocated trait pointers, so the copy
// and the original never share weight storage.
func (p Personality) Clone() Personality {
	var out Personality
	if p.Aggression != nil {
		out.Aggression = Trait(*p.Aggression)
	}
	if p.Caution != nil {
		out.Caution = Trait(*p.Caution)
	}
	if p.Impulsiveness != nil {
		out.Impulsiveness = Trait(*p.Impulsiveness)
	}
	if p.PopulistTendency != nil {
		out.PopulistTendency = Trait(*p.PopulistTendency)
	}
	return out
}

// traitOr returns the trait value, or def when the trait is unset.
func traitOr(t *float64, def float64) float64 {
	if t == nil {
		return def
	}
	return *t
}

// Action is an immutable catalog entry: one discrete move an actor can
// commit to. Severity runs 1 (mild) to 10 (extreme). Consequences map
// open-ended effect names to signed deltas; the scenario layer owns the
// vocabulary and the translation into factor outcomes.
type Action struct {
	Category           Category           `json:"category"`
	Description        string             `json:"description"`
	Severity           int                `json:"severity"`
	SuccessProbability float64            `json:"success_probability"`
	Consequences       map[string]float64 `json:"consequences,omitempty"`
}

// ErrCatalogSet is returned when an actor's catalog is populated twice.
var ErrCatalogSet = errors.New("actor: catalog already populated")

// Actor is an autonomous decision-making entity. Its factor state
// evolves only through ApplyOutcome, and its history only grows; both
// are unexported so observers go through copying accessors.
type Actor struct {
	Nation      string
	Personality Personality

	state   FactorState
	catalog []Action
	history []Action
	rng     *rand.Rand
}

// New creates an actor with a neutral factor state, an empty catalog,
// and its own seeded generator. Decisions are reproducible per seed.
func New(nation string, p Personality, seed int64) *Actor {
	return &Actor{
		Nation:      nation,
		Personality: p,
		state:       NewFactorState(),
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// SetCatalog populates the action menu. The catalog is fixed once
// populated; a second call is a wiring bug and returns ErrCatalogSet.
// The input slice is copied.
func (a *Actor) SetCatalog(actions []Action) error {
	if a.catalog != nil {
		return ErrCatalogSet
	}
	a.catalog = make([]Action, len(actions))
	copy(a.catalog, actions)
	return nil
}

// Catalog returns a copy of the action menu in declaration order.
func (a *Actor) Catalog() []Action {
	out := make([]Action, len(a.catalog))
	copy(out, a.catalog)
	return out
}

// CatalogSize returns the number of available actions.
func (a *Actor) CatalogSize() int {
	return len(a.catalog)
}

// State returns the current factor state. FactorState is a value type,
// so the caller gets a copy.
func (a *Actor) State() FactorState {
	return a.state
}

// History returns a copy of the decision history, oldest first.
func (a *Actor) History() []Action {
	out := make([]Action, len(a.history))
	copy(out, a.history)
	return out
}

// LastAction returns the most recent committed action, if any.
func (a *Actor) LastAction() (Action, bool) {
	if len(a.history) == 0 {
		return Action{}, false
	}
	return a.history[len(a.history)-1], true
}
