package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/flashpoint/internal/actor"
)

func TestLoadEmbeddedPool(t *testing.T) {
	pool, err := Load()
	require.NoError(t, err)

	nations := pool.Nations()
	require.Equal(t, []string{
		"United States", "North Korea", "South Korea", "Japan", "China", "Russia",
	}, nations)

	for _, n := range nations {
		assert.True(t, pool.Has(n))
	}
	assert.False(t, pool.Has("Atlantis"))
}

func TestUnitedStatesEntry(t *testing.T) {
	pool, err := Load()
	require.NoError(t, err)

	cat, err := pool.CatalogFor("United States")
	require.NoError(t, err)
	require.Len(t, cat, 4)

	first := cat[0]
	assert.Equal(t, actor.CategoryMilitary, first.Category)
	assert.Equal(t, "Deploy carrier group to South China Sea", first.Description)
	assert.Equal(t, 7, first.Severity)
	assert.Equal(t, 0.8, first.SuccessProbability)
	assert.Equal(t, map[string]float64{
		"tension":               0.3,
		"deterrence":            0.4,
		"international_support": -0.2,
	}, first.Consequences)

	p, err := pool.PersonalityFor("United States")
	require.NoError(t, err)
	require.NotNil(t, p.Aggression)
	assert.Equal(t, 0.7, *p.Aggression)
	require.NotNil(t, p.Caution)
	assert.Equal(t, 0.3, *p.Caution)
	require.NotNil(t, p.Impulsiveness)
	assert.Equal(t, 0.1, *p.Impulsiveness)
	require.NotNil(t, p.PopulistTendency)
	assert.Equal(t, 0.6, *p.PopulistTendency)
}

func TestNorthKoreaEntry(t *testing.T) {
	pool, err := Load()
	require.NoError(t, err)

	cat, err := pool.CatalogFor("North Korea")
	require.NoError(t, err)
	require.Len(t, cat, 3)

	assert.Equal(t, actor.CategoryMilitary, cat[0].Category)
	assert.Equal(t, "Conduct missile test over Japan", cat[0].Description)
	assert.Equal(t, 8, cat[0].Severity)
	assert.Equal(t, 0.7, cat[0].SuccessProbability)

	assert.Equal(t, actor.CategoryPropaganda, cat[1].Category)
	assert.Equal(t, 0.95, cat[1].SuccessProbability)
}

func TestAllEntriesValid(t *testing.T) {
	pool, err := Load()
	require.NoError(t, err)

	for _, nation := range pool.Nations() {
		cat, err := pool.CatalogFor(nation)
		require.NoError(t, err, nation)
		require.NotEmpty(t, cat, nation)

		for _, act := range cat {
			assert.NotEmpty(t, act.Description, nation)
			assert.GreaterOrEqual(t, act.Severity, 1, "%s: %s", nation, act.Description)
			assert.LessOrEqual(t, act.Severity, 10, "%s: %s", nation, act.Description)
			assert.GreaterOrEqual(t, act.SuccessProbability, 0.0, "%s: %s", nation, act.Description)
			assert.LessOrEqual(t, act.SuccessProbability, 1.0, "%s: %s", nation, act.Description)
			assert.NotEmpty(t, act.Consequences, "%s: %s", nation, act.Description)
		}
	}
}

func TestUnknownNation(t *testing.T) {
	pool, err := Load()
	require.NoError(t, err)

	_, err = pool.CatalogFor("Atlantis")
	require.ErrorIs(t, err, ErrUnknownNation)

	_, err = pool.PersonalityFor("Atlantis")
	require.ErrorIs(t, err, ErrUnknownNation)
}

func TestCatalogForDeepCopies(t *testing.T) {
	pool, err := Load()
	require.NoError(t, err)

	cat, err := pool.CatalogFor("United States")
	require.NoError(t, err)
	cat[0].Description = "tampered"
	cat[0].Consequences["tension"] = 99.0

	again, err := pool.CatalogFor("United States")
	require.NoError(t, err)
	assert.Equal(t, "Deploy carrier group to South China Sea", again[0].Description)
	assert.Equal(t, 0.3, again[0].Consequences["tension"])
}

func TestPersonalityForDeepCopies(t *testing.T) {
	pool, err := Load()
	require.NoError(t, err)

	p, err := pool.PersonalityFor("United States")
	require.NoError(t, err)
	*p.Aggression = 99.0

	again, err := pool.PersonalityFor("United States")
	require.NoError(t, err)
	assert.Equal(t, 0.7, *again.Aggression)
}

func TestParseRejectsBadPools(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty pool", `nations: []`},
		{"missing name", `
nations:
  - personality: {aggression: 0.5}
    actions:
      - {category: military, description: strike, severity: 5, success_probability: 0.5}
`},
		{"duplicate nation", `
nations:
  - name: Twinland
    actions:
      - {category: military, description: strike, severity: 5, success_probability: 0.5}
  - name: Twinland
    actions:
      - {category: military, description: strike, severity: 5, success_probability: 0.5}
`},
		{"no actions", `
nations:
  - name: Idleland
    actions: []
`},
		{"bad category", `
nations:
  - name: Testland
    actions:
      - {category: meteorological, description: seed clouds, severity: 5, success_probability: 0.5}
`},
		{"severity out of range", `
nations:
  - name: Testland
    actions:
      - {category: military, description: strike, severity: 11, success_probability: 0.5}
`},
		{"probability out of range", `
nations:
  - name: Testland
    actions:
      - {category: military, description: strike, severity: 5, success_probability: 1.5}
`},
		{"empty description", `
nations:
  - name: Testland
    actions:
      - {category: military, description: "", severity: 5, success_probability: 0.5}
`},
		{"not yaml", `{{{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse([]byte(tc.yaml))
			require.Error(t, err)
		})
	}
}
