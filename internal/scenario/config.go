package scenario

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/flashpoint/internal/actor"
)

// NationConfig casts one pool nation. A nil Personality keeps the
// pool's stock weights; set fields override them individually.
type NationConfig struct {
	Name        string             `yaml:"name" json:"name"`
	Personality *actor.Personality `yaml:"personality,omitempty" json:"personality,omitempty"`
}

// Config describes one scenario: which nations play and under which
// seed. Seed 0 means unset; the caller resolves a real seed before
// constructing the simulation.
type Config struct {
	Name    string         `yaml:"name" json:"name"`
	Seed    int64          `yaml:"seed,omitempty" json:"seed,omitempty"`
	Nations []NationConfig `yaml:"nations" json:"nations"`
}

// DefaultConfig is the stock two-nation standoff.
func DefaultConfig() Config {
	return Config{
		Name: "standoff",
		Nations: []NationConfig{
			{Name: "United States"},
			{Name: "North Korea"},
		},
	}
}

// LoadConfig reads a scenario YAML file.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scenario: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("scenario: parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("scenario: config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Name == "" {
		return errors.New("missing scenario name")
	}
	if len(c.Nations) == 0 {
		return errors.New("no nations configured")
	}
	seen := make(map[string]bool, len(c.Nations))
	for i, n := range c.Nations {
		if n.Name == "" {
			return fmt.Errorf("nation %d has no name", i)
		}
		if seen[n.Name] {
			return fmt.Errorf("duplicate nation %q", n.Name)
		}
		seen[n.Name] = true
	}
	return nil
}

// mergePersonality overlays set override traits onto the base. Unset
// override fields keep the base value.
func mergePersonality(base actor.Personality, override *actor.Personality) actor.Personality {
	if override == nil {
		return base
	}
	if override.Aggression != nil {
		base.Aggression = actor.Trait(*override.Aggression)
	}
	if override.Caution != nil {
		base.Caution = actor.Trait(*override.Caution)
	}
	if override.Impulsiveness != nil {
		base.Impulsiveness = actor.Trait(*override.Impulsiveness)
	}
	if override.PopulistTendency != nil {
		base.PopulistTendency = actor.Trait(*override.PopulistTendency)
	}
	return base
}
