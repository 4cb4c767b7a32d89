package actor

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFactorStateBoundsProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("factor state stays bounded under any outcome stream", prop.ForAll(
		func(deltas []float64) bool {
			a := New("propland", Personality{}, 1)
			for i, d := range deltas {
				f := Factor(i % FactorCount)
				a.ApplyOutcome(Action{Description: "probe"}, Outcome{f: d})
			}
			st := a.State()
			for _, v := range st {
				if v < FactorMin || v > FactorMax {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(-1e6, 1e6)),
	))

	properties.Property("situation assessment stays bounded under any world pressure", prop.ForAll(
		func(proximity, recent, aggression, populist float64) bool {
			p := Personality{Aggression: Trait(aggression), PopulistTendency: Trait(populist)}
			a := New("propland", p, 1)
			sit := a.EvaluateSituation(WorldState{
				EnemyUnitsProximity: proximity,
				RecentActionSuccess: recent,
			})
			for _, v := range sit {
				if v < FactorMin || v > FactorMax {
					return false
				}
			}
			return true
		},
		gen.Float64Range(-100, 100),
		gen.Float64Range(-100, 100),
		gen.Float64Range(-10, 10),
		gen.Float64Range(-10, 10),
	))

	properties.TestingRun(t)
}

func TestDecideDeterminismProperty(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	properties := gopter.NewProperties(params)

	properties.Property("identically seeded actors always agree", prop.ForAll(
		func(seed int64, proximity float64) bool {
			build := func() *Actor {
				a := New("propland", usaPersonality(), seed)
				if err := a.SetCatalog(usaCatalog()); err != nil {
					return nil
				}
				return a
			}
			a1, a2 := build(), build()
			if a1 == nil || a2 == nil {
				return false
			}
			w := WorldState{EnemyUnitsProximity: proximity}
			for i := 0; i < 10; i++ {
				d1, ok1 := a1.Decide(w)
				d2, ok2 := a2.Decide(w)
				if ok1 != ok2 || d1.Irrational != d2.Irrational ||
					d1.Score != d2.Score || d1.Action.Description != d2.Action.Description {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.Float64Range(0, 3),
	))

	properties.TestingRun(t)
}
