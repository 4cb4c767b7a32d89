// Package scenario drives the crisis loop. A Simulation owns the cast
// of nation actors, the shared theater they observe, the translation of
// action consequences into outcomes, and the per-cycle event stream.
// See design doc Section 4.
package scenario

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/flashpoint/internal/actor"
)

const (
	maxEvents        = 256
	historyTailLen   = 5
	cycleReportEvery = 10
)

// Per-actor seed spacing. Each cast member gets its own generator so
// one nation's impulse rolls never perturb another's.
const (
	actorSeedStride   = 101
	outcomeSeedOffset = 500
	theaterSeedOffset = 600
)

// Event categories beyond the action categories.
const (
	EventCategoryDeployment = "deployment"
	EventCategoryWorld      = "world"
)

// Event is one entry in the scenario's append-only log.
type Event struct {
	Cycle       uint64    `json:"cycle"`
	Time        time.Time `json:"time"`
	Nation      string    `json:"nation,omitempty"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

// Recorder receives everything worth persisting. The journal implements
// it; a nil Recorder means the run is not journaled.
type Recorder interface {
	RecordDecision(cycle uint64, nation string, dec actor.Decision, succeeded bool) error
	RecordEvent(ev Event) error
	RecordFactors(cycle uint64, nation string, state actor.FactorState) error
}

// Provider supplies each cast member's action menu and stock
// personality, keyed by nation name. The catalog package's Pool is the
// shipped implementation.
type Provider interface {
	CatalogFor(nation string) ([]actor.Action, error)
	PersonalityFor(nation string) (actor.Personality, error)
}

// DecisionView is the observer-facing shape of a committed decision.
type DecisionView struct {
	Cycle       uint64  `json:"cycle"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Irrational  bool    `json:"irrational"`
	Succeeded   bool    `json:"succeeded"`
}

// ActorView is a point-in-time snapshot of one cast member.
type ActorView struct {
	Nation        string             `json:"nation"`
	Personality   actor.Personality  `json:"personality"`
	Factors       map[string]float64 `json:"factors"`
	CatalogSize   int                `json:"catalog_size"`
	Decisions     int                `json:"decisions"`
	RecentSuccess float64            `json:"recent_success"`
	Proximity     float64            `json:"enemy_units_proximity"`
	LastDecision  *DecisionView      `json:"last_decision,omitempty"`
	HistoryTail   []string           `json:"history_tail,omitempty"`
}

// Simulation is the crisis loop state. All mutation happens inside
// RunCycle under the write lock; accessors take read locks, so the API
// can observe mid-run.
type Simulation struct {
	// Recorder, when set, receives every decision, event, and factor
	// snapshot. Wire it before the first cycle.
	Recorder Recorder

	mu            sync.RWMutex
	name          string
	seed          int64
	actors        []*actor.Actor
	recents       map[string]float64
	lastDecisions map[string]DecisionView
	theater       *Theater
	rng           *rand.Rand
	cycle         uint64
	events        []Event
	runID         string
	startedAt     time.Time
}

// New builds the cast from the pool and places their starting units.
// Unknown or duplicate nations fail fast so a bad scenario never starts
// running.
func New(cfg Config, pool Provider) (*Simulation, error) {
	if len(cfg.Nations) == 0 {
		return nil, errors.New("scenario: no nations configured")
	}

	s := &Simulation{
		name:          cfg.Name,
		seed:          cfg.Seed,
		recents:       make(map[string]float64, len(cfg.Nations)),
		lastDecisions: make(map[string]DecisionView, len(cfg.Nations)),
		rng:           rand.New(rand.NewSource(cfg.Seed + outcomeSeedOffset)),
		runID:         uuid.NewString(),
		startedAt:     time.Now(),
	}

	names := make([]string, 0, len(cfg.Nations))
	seen := make(map[string]bool, len(cfg.Nations))
	for i, nc := range cfg.Nations {
		if seen[nc.Name] {
			return nil, fmt.Errorf("scenario: duplicate nation %q", nc.Name)
		}
		seen[nc.Name] = true

		cat, err := pool.CatalogFor(nc.Name)
		if err != nil {
			return nil, fmt.Errorf("scenario: cast %q: %w", nc.Name, err)
		}
		personality, err := pool.PersonalityFor(nc.Name)
		if err != nil {
			return nil, fmt.Errorf("scenario: cast %q: %w", nc.Name, err)
		}
		personality = mergePersonality(personality, nc.Personality)

		a := actor.New(nc.Name, personality, cfg.Seed+int64(i+1)*actorSeedStride)
		if err := a.SetCatalog(cat); err != nil {
			return nil, fmt.Errorf("scenario: cast %q: %w", nc.Name, err)
		}
		s.actors = append(s.actors, a)
		names = append(names, nc.Name)
	}

	s.theater = NewTheater(cfg.Seed+theaterSeedOffset, names)
	return s, nil
}

// RunCycle advances the simulation one decision cycle: drift units,
// let every actor observe and decide in cast order, execute outcomes,
// then relax tension.
func (s *Simulation) RunCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cycle++
	s.theater.Drift(s.cycle)
	tensionBefore := s.theater.Tension()

	for _, a := range s.actors {
		w := s.worldStateFor(a.Nation)
		dec, ok := a.Decide(w)
		if !ok {
			continue
		}
		succeeded := s.execute(a, dec)
		s.noteDecision(a, dec, succeeded)
	}

	s.theater.RelaxTension()
	s.noteTensionShift(tensionBefore)

	if s.cycle%cycleReportEvery == 0 {
		slog.Info("cycle complete",
			"cycle", s.cycle,
			"tension", s.theater.Tension(),
		)
	}
}

// worldStateFor assembles one actor's observation snapshot.
func (s *Simulation) worldStateFor(nation string) actor.WorldState {
	return actor.WorldState{
		EnemyUnitsProximity: s.theater.Proximity(nation),
		RecentActionSuccess: s.recents[nation],
	}
}

func (s *Simulation) noteDecision(a *actor.Actor, dec actor.Decision, succeeded bool) {
	view := DecisionView{
		Cycle:       s.cycle,
		Category:    dec.Action.Category.String(),
		Description: dec.Action.Description,
		Score:       dec.Score,
		Irrational:  dec.Irrational,
		Succeeded:   succeeded,
	}
	s.lastDecisions[a.Nation] = view

	s.appendEvent(Event{
		Cycle:       s.cycle,
		Nation:      a.Nation,
		Category:    dec.Action.Category.String(),
		Description: dec.Action.Description,
	})

	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.RecordDecision(s.cycle, a.Nation, dec, succeeded); err != nil {
		slog.Error("record decision", "nation", a.Nation, "error", err)
	}
	if err := s.Recorder.RecordFactors(s.cycle, a.Nation, a.State()); err != nil {
		slog.Error("record factors", "nation", a.Nation, "error", err)
	}
}

// noteTensionShift emits a world event whenever tension crosses a
// decile boundary within one cycle.
func (s *Simulation) noteTensionShift(before float64) {
	after := s.theater.Tension()
	if int(before/10) == int(after/10) {
		return
	}
	verb := "rises"
	if after < before {
		verb = "eases"
	}
	s.appendEvent(Event{
		Cycle:       s.cycle,
		Category:    EventCategoryWorld,
		Description: fmt.Sprintf("Theater tension %s to %.1f", verb, after),
	})
}

func (s *Simulation) appendEvent(ev Event) {
	ev.Time = time.Now()
	s.events = append(s.events, ev)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
	slog.Debug("event", "cycle", ev.Cycle, "nation", ev.Nation, "description", ev.Description)

	if s.Recorder != nil {
		if err := s.Recorder.RecordEvent(ev); err != nil {
			slog.Error("record event", "error", err)
		}
	}
}

func (s *Simulation) actorView(a *actor.Actor) ActorView {
	hist := a.History()
	start := len(hist) - historyTailLen
	if start < 0 {
		start = 0
	}
	tail := make([]string, 0, len(hist)-start)
	for _, act := range hist[start:] {
		tail = append(tail, act.Description)
	}

	v := ActorView{
		Nation:        a.Nation,
		Personality:   a.Personality.Clone(),
		Factors:       a.State().Map(),
		CatalogSize:   a.CatalogSize(),
		Decisions:     len(hist),
		RecentSuccess: s.recents[a.Nation],
		Proximity:     s.theater.Proximity(a.Nation),
		HistoryTail:   tail,
	}
	if dv, ok := s.lastDecisions[a.Nation]; ok {
		dvCopy := dv
		v.LastDecision = &dvCopy
	}
	return v
}

// ActorViews snapshots every cast member in cast order.
func (s *Simulation) ActorViews() []ActorView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ActorView, 0, len(s.actors))
	for _, a := range s.actors {
		out = append(out, s.actorView(a))
	}
	return out
}

// ActorView snapshots a single cast member by nation name.
func (s *Simulation) ActorView(nation string) (ActorView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.actors {
		if a.Nation == nation {
			return s.actorView(a), true
		}
	}
	return ActorView{}, false
}

// RecentEvents returns up to n events, newest first.
func (s *Simulation) RecentEvents(n int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.events) {
		n = len(s.events)
	}
	out := make([]Event, 0, n)
	for i := len(s.events) - 1; i >= len(s.events)-n; i-- {
		out = append(out, s.events[i])
	}
	return out
}

// Units returns the current theater deployments.
func (s *Simulation) Units() []Unit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theater.Units()
}

// Tension returns the current global tension level.
func (s *Simulation) Tension() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theater.Tension()
}

// Cycle returns the number of completed cycles.
func (s *Simulation) Cycle() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cycle
}

// Nations lists the cast in order.
func (s *Simulation) Nations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.actors))
	for _, a := range s.actors {
		out = append(out, a.Nation)
	}
	return out
}

// RunID identifies this run; the journal keys everything on it.
func (s *Simulation) RunID() string {
	return s.runID
}

// Name returns the scenario name.
func (s *Simulation) Name() string {
	return s.name
}

// Seed returns the seed the cast and theater were built from.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// StartedAt returns when the simulation was constructed.
func (s *Simulation) StartedAt() time.Time {
	return s.startedAt
}
