package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNationTheater(seed int64) *Theater {
	return NewTheater(seed, []string{"United States", "North Korea"})
}

func TestNewTheaterPlacesCast(t *testing.T) {
	th := twoNationTheater(1)

	units := th.Units()
	require.Len(t, units, 4)
	assert.Equal(t, "United States", units[0].Nation)
	assert.Equal(t, UnitCarrier, units[0].Kind)
	assert.Equal(t, 150.0, units[0].X)
	assert.Equal(t, 320.0, units[0].Y)
	assert.Equal(t, TensionBaseline, th.Tension())
}

func TestNewTheaterSkipsAbsentNations(t *testing.T) {
	th := NewTheater(1, []string{"Japan"})
	units := th.Units()
	require.Len(t, units, 1)
	assert.Equal(t, UnitAirbase, units[0].Kind)
}

func TestDriftDeterministic(t *testing.T) {
	t1 := twoNationTheater(42)
	t2 := twoNationTheater(42)

	t1.Drift(5)
	t2.Drift(5)
	require.Equal(t, t1.Units(), t2.Units())

	// Drifting to the same cycle twice is idempotent.
	before := t1.Units()
	t1.Drift(5)
	require.Equal(t, before, t1.Units())
}

func TestDriftMovesWithinBounds(t *testing.T) {
	th := twoNationTheater(7)

	for cycle := uint64(1); cycle <= 200; cycle++ {
		th.Drift(cycle)
		for _, u := range th.Units() {
			assert.GreaterOrEqual(t, u.X, 0.0)
			assert.LessOrEqual(t, u.X, theaterWidth)
			assert.GreaterOrEqual(t, u.Y, 0.0)
			assert.LessOrEqual(t, u.Y, theaterHeight)
		}
	}
}

func TestProximityBounds(t *testing.T) {
	th := twoNationTheater(7)

	for cycle := uint64(1); cycle <= 100; cycle++ {
		th.Drift(cycle)
		for _, nation := range []string{"United States", "North Korea"} {
			p := th.Proximity(nation)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, proximityMax)
		}
	}
}

func TestProximityNoForeignUnits(t *testing.T) {
	th := NewTheater(1, []string{"Japan"})
	assert.Zero(t, th.Proximity("Japan"))
	assert.Zero(t, th.Proximity("Atlantis"))
}

func TestProximityScalesWithTension(t *testing.T) {
	calm := twoNationTheater(3)
	hot := twoNationTheater(3)
	hot.AddTension(50)

	assert.Greater(t, hot.Proximity("North Korea"), calm.Proximity("North Korea"))
}

func TestProximityCloserIsHigher(t *testing.T) {
	far := twoNationTheater(3)

	near := twoNationTheater(3)
	near.Deploy("United States", UnitCarrier, 1)
	// Move the new unit right on top of a North Korean asset.
	near.units[len(near.units)-1].X = 820
	near.units[len(near.units)-1].Y = 220

	assert.Greater(t, near.Proximity("United States"), far.Proximity("United States"))
}

func TestDeployCapsNationUnits(t *testing.T) {
	th := twoNationTheater(9)

	for cycle := uint64(1); cycle <= 12; cycle++ {
		th.Deploy("United States", UnitSubmarine, cycle)
	}

	count := 0
	oldestDeploy := uint64(1 << 62)
	for _, u := range th.Units() {
		if u.Nation != "United States" {
			continue
		}
		count++
		if u.DeployedCycle < oldestDeploy {
			oldestDeploy = u.DeployedCycle
		}
	}
	assert.Equal(t, maxUnitsPerNation, count)
	// Starting deployments (cycle 0) and the earliest reinforcements are
	// retired first.
	assert.Equal(t, uint64(5), oldestDeploy)

	// Other nations are untouched.
	nk := 0
	for _, u := range th.Units() {
		if u.Nation == "North Korea" {
			nk++
		}
	}
	assert.Equal(t, 2, nk)
}

func TestTensionClamps(t *testing.T) {
	th := twoNationTheater(1)

	th.AddTension(500)
	assert.Equal(t, TensionMax, th.Tension())

	th.AddTension(-500)
	assert.Equal(t, TensionMin, th.Tension())
}

func TestRelaxTensionDecaysTowardBaseline(t *testing.T) {
	th := twoNationTheater(1)
	th.AddTension(40)

	th.RelaxTension()
	require.InDelta(t, 89.2, th.Tension(), 1e-9)

	for i := 0; i < 500; i++ {
		th.RelaxTension()
	}
	assert.InDelta(t, TensionBaseline, th.Tension(), 0.01)
}

func TestUnitKindNames(t *testing.T) {
	assert.Equal(t, "carrier", UnitCarrier.String())
	assert.Equal(t, "submarine", UnitSubmarine.String())
	assert.Equal(t, "airbase", UnitAirbase.String())
	assert.Equal(t, "missile_site", UnitMissileSite.String())
	assert.Equal(t, "unknown", UnitKind(9).String())

	b, err := UnitMissileSite.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"missile_site"`, string(b))
}
