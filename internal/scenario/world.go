package scenario

import (
	"encoding/json"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Theater geometry and dynamics. Positions live on an abstract plane
// with no geographic meaning; they exist only to derive proximity.
const (
	theaterWidth  = 1000.0
	theaterHeight = 600.0

	// proximitySpan is the distance at which raw proximity falls to half
	// its maximum.
	proximitySpan = 150.0
	proximityMax  = 3.0

	driftAmplitude = 18.0
	deploySpread   = 60.0

	maxUnitsPerNation = 8
)

// Global tension bounds. Tension starts at the baseline and decays back
// toward it a little every cycle.
const (
	TensionMin      = 0.0
	TensionMax      = 100.0
	TensionBaseline = 50.0

	tensionRelaxRate = 0.02
)

// UnitKind is the type of a deployed military unit.
type UnitKind uint8

const (
	UnitCarrier UnitKind = iota
	UnitSubmarine
	UnitAirbase
	UnitMissileSite
)

var unitKindNames = [...]string{"carrier", "submarine", "airbase", "missile_site"}

func (k UnitKind) String() string {
	if int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return "unknown"
}

// MarshalJSON writes the kind's wire name.
func (k UnitKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Unit is one deployed asset. Anchor coordinates are fixed at
// deployment; the visible position drifts around the anchor on a noise
// field so repeated observation shows movement without random walk.
type Unit struct {
	Nation        string   `json:"nation"`
	Kind          UnitKind `json:"kind"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	DeployedCycle uint64   `json:"deployed_cycle"`

	anchorX float64
	anchorY float64
}

type deployment struct {
	kind UnitKind
	x, y float64
}

// defaultDeployments places each pool nation's starting assets.
var defaultDeployments = map[string][]deployment{
	"United States": {{UnitCarrier, 150, 320}, {UnitSubmarine, 240, 380}},
	"North Korea":   {{UnitSubmarine, 820, 220}, {UnitMissileSite, 790, 180}},
	"South Korea":   {{UnitAirbase, 830, 300}},
	"Japan":         {{UnitAirbase, 880, 250}},
	"China":         {{UnitMissileSite, 700, 200}, {UnitCarrier, 650, 280}},
	"Russia":        {{UnitSubmarine, 860, 120}},
}

// Theater tracks units and global tension. Not safe for concurrent use;
// the owning Simulation serializes access.
type Theater struct {
	units   []Unit
	noise   opensimplex.Noise
	tension float64
}

// NewTheater seeds the noise field and places the cast nations'
// starting deployments in cast order.
func NewTheater(seed int64, nations []string) *Theater {
	t := &Theater{
		noise:   opensimplex.NewNormalized(seed),
		tension: TensionBaseline,
	}
	for _, nation := range nations {
		for _, d := range defaultDeployments[nation] {
			t.units = append(t.units, Unit{
				Nation:  nation,
				Kind:    d.kind,
				X:       d.x,
				Y:       d.y,
				anchorX: d.x,
				anchorY: d.y,
			})
		}
	}
	return t
}

// Drift recomputes every unit's position for the given cycle. The
// displacement is a pure function of (noise seed, anchor, cycle), so
// replaying a cycle lands units in identical spots.
func (t *Theater) Drift(cycle uint64) {
	ct := float64(cycle) * 0.05
	for i := range t.units {
		u := &t.units[i]
		dx := (t.noise.Eval2(u.anchorX*0.011, ct) - 0.5) * 2 * driftAmplitude
		dy := (t.noise.Eval2(u.anchorY*0.011+37.0, ct) - 0.5) * 2 * driftAmplitude
		u.X = clampCoord(u.anchorX+dx, theaterWidth)
		u.Y = clampCoord(u.anchorY+dy, theaterHeight)
	}
}

// Proximity measures how close foreign units sit to the nation's own,
// on [0, proximityMax]. Raw inverse distance to the nearest foreign
// unit is scaled by global tension: the same standoff reads twice as
// threatening at tension 100 as at tension 0.
func (t *Theater) Proximity(nation string) float64 {
	nearest := math.MaxFloat64
	found := false
	for _, u := range t.units {
		if u.Nation != nation {
			continue
		}
		for _, v := range t.units {
			if v.Nation == nation {
				continue
			}
			d := math.Hypot(u.X-v.X, u.Y-v.Y)
			if d < nearest {
				nearest = d
				found = true
			}
		}
	}
	if !found {
		return 0
	}
	raw := proximityMax * proximitySpan / (proximitySpan + nearest)
	scaled := raw * (0.5 + t.tension/TensionMax)
	if scaled > proximityMax {
		scaled = proximityMax
	}
	return scaled
}

// Deploy adds a unit near the nation's existing cluster. Each nation
// holds at most maxUnitsPerNation units; the oldest deployment is
// retired to make room.
func (t *Theater) Deploy(nation string, kind UnitKind, cycle uint64) Unit {
	baseX, baseY := t.nationAnchor(nation)
	off := float64(cycle)*0.37 + float64(len(t.units))*1.7
	x := clampCoord(baseX+(t.noise.Eval2(off, 11.0)-0.5)*2*deploySpread, theaterWidth)
	y := clampCoord(baseY+(t.noise.Eval2(off, 53.0)-0.5)*2*deploySpread, theaterHeight)

	u := Unit{
		Nation:        nation,
		Kind:          kind,
		X:             x,
		Y:             y,
		DeployedCycle: cycle,
		anchorX:       x,
		anchorY:       y,
	}
	t.units = append(t.units, u)
	t.capNation(nation)
	return u
}

// nationAnchor is the centroid of the nation's unit anchors.
func (t *Theater) nationAnchor(nation string) (float64, float64) {
	var sx, sy float64
	n := 0
	for _, u := range t.units {
		if u.Nation == nation {
			sx += u.anchorX
			sy += u.anchorY
			n++
		}
	}
	if n == 0 {
		return theaterWidth / 2, theaterHeight / 2
	}
	return sx / float64(n), sy / float64(n)
}

func (t *Theater) capNation(nation string) {
	count := 0
	for _, u := range t.units {
		if u.Nation == nation {
			count++
		}
	}
	for count > maxUnitsPerNation {
		oldest := -1
		for i, u := range t.units {
			if u.Nation != nation {
				continue
			}
			if oldest == -1 || u.DeployedCycle < t.units[oldest].DeployedCycle {
				oldest = i
			}
		}
		t.units = append(t.units[:oldest], t.units[oldest+1:]...)
		count--
	}
}

// AddTension shifts global tension, clamped to its bounds.
func (t *Theater) AddTension(v float64) {
	t.tension += v
	if t.tension < TensionMin {
		t.tension = TensionMin
	}
	if t.tension > TensionMax {
		t.tension = TensionMax
	}
}

// RelaxTension decays tension toward the baseline.
func (t *Theater) RelaxTension() {
	t.tension += (TensionBaseline - t.tension) * tensionRelaxRate
}

// Tension returns the current global tension level.
func (t *Theater) Tension() float64 {
	return t.tension
}

// Units returns a copy of all deployed units.
func (t *Theater) Units() []Unit {
	out := make([]Unit, len(t.units))
	copy(out, t.units)
	return out
}

func clampCoord(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
