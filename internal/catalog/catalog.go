// Package catalog loads the embedded nation pool: per-nation action
// menus and stock personalities. The pool is read-only after load;
// accessors hand out deep copies so callers can never mutate it.
// See design doc Section 8.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/talgya/flashpoint/internal/actor"
)

//go:embed catalogs.yaml
var catalogsYAML []byte

// ErrUnknownNation is returned when a requested nation is not in the pool.
var ErrUnknownNation = errors.New("catalog: unknown nation")

// Severity bounds for catalog actions.
const (
	minSeverity = 1
	maxSeverity = 10
)

type poolDoc struct {
	Nations []nationDoc `yaml:"nations"`
}

type nationDoc struct {
	Name        string            `yaml:"name"`
	Personality actor.Personality `yaml:"personality"`
	Actions     []actionDoc       `yaml:"actions"`
}

type actionDoc struct {
	Category           string             `yaml:"category"`
	Description        string             `yaml:"description"`
	Severity           int                `yaml:"severity"`
	SuccessProbability float64            `yaml:"success_probability"`
	Consequences       map[string]float64 `yaml:"consequences"`
}

type entry struct {
	personality actor.Personality
	actions     []actor.Action
}

// Pool is the loaded nation pool. Nation order follows the source
// document.
type Pool struct {
	entries map[string]entry
	names   []string
}

// Load parses the embedded pool and validates every entry.
func Load() (*Pool, error) {
	return parse(catalogsYAML)
}

func parse(data []byte) (*Pool, error) {
	var doc poolDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse pool: %w", err)
	}
	if len(doc.Nations) == 0 {
		return nil, errors.New("catalog: pool has no nations")
	}

	p := &Pool{entries: make(map[string]entry, len(doc.Nations))}
	for _, n := range doc.Nations {
		if n.Name == "" {
			return nil, errors.New("catalog: nation with empty name")
		}
		if _, dup := p.entries[n.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate nation %q", n.Name)
		}
		if len(n.Actions) == 0 {
			return nil, fmt.Errorf("catalog: nation %q has no actions", n.Name)
		}

		actions := make([]actor.Action, 0, len(n.Actions))
		for i, ad := range n.Actions {
			act, err := ad.toAction()
			if err != nil {
				return nil, fmt.Errorf("catalog: nation %q action %d: %w", n.Name, i, err)
			}
			actions = append(actions, act)
		}

		p.entries[n.Name] = entry{personality: n.Personality, actions: actions}
		p.names = append(p.names, n.Name)
	}
	return p, nil
}

func (ad actionDoc) toAction() (actor.Action, error) {
	cat, err := actor.ParseCategory(ad.Category)
	if err != nil {
		return actor.Action{}, err
	}
	if ad.Description == "" {
		return actor.Action{}, errors.New("empty description")
	}
	if ad.Severity < minSeverity || ad.Severity > maxSeverity {
		return actor.Action{}, fmt.Errorf("severity %d out of range [%d,%d]", ad.Severity, minSeverity, maxSeverity)
	}
	if ad.SuccessProbability < 0 || ad.SuccessProbability > 1 {
		return actor.Action{}, fmt.Errorf("success probability %v out of range [0,1]", ad.SuccessProbability)
	}
	return actor.Action{
		Category:           cat,
		Description:        ad.Description,
		Severity:           ad.Severity,
		SuccessProbability: ad.SuccessProbability,
		Consequences:       copyConsequences(ad.Consequences),
	}, nil
}

func copyConsequences(src map[string]float64) map[string]float64 {
	if src == nil {
		return nil
	}
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Nations lists pool nations in document order.
func (p *Pool) Nations() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Has reports whether the pool contains the nation.
func (p *Pool) Has(nation string) bool {
	_, ok := p.entries[nation]
	return ok
}

// CatalogFor returns a deep copy of the nation's action menu.
func (p *Pool) CatalogFor(nation string) ([]actor.Action, error) {
	e, ok := p.entries[nation]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNation, nation)
	}
	out := make([]actor.Action, len(e.actions))
	for i, act := range e.actions {
		act.Consequences = copyConsequences(act.Consequences)
		out[i] = act
	}
	return out, nil
}

// PersonalityFor returns a copy of the nation's stock personality.
// Trait pointers are re-allocated so callers cannot reach pool memory.
func (p *Pool) PersonalityFor(nation string) (actor.Personality, error) {
	e, ok := p.entries[nation]
	if !ok {
		return actor.Personality{}, fmt.Errorf("%w: %s", ErrUnknownNation, nation)
	}
	return e.personality.Clone(), nil
}
