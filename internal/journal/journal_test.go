package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/flashpoint/internal/actor"
	"github.com/talgya/flashpoint/internal/scenario"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleDecision(irrational bool) actor.Decision {
	return actor.Decision{
		Action: actor.Action{
			Category:           actor.CategoryMilitary,
			Description:        "Deploy carrier group to South China Sea",
			Severity:           7,
			SuccessProbability: 0.8,
		},
		Score:      0.64,
		Irrational: irrational,
	}
}

func TestRoundTrip(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.BeginRun("run-1", "standoff", 42,
		[]string{"United States", "North Korea"}))

	require.NoError(t, db.RecordDecision(1, "United States", sampleDecision(false), true))
	require.NoError(t, db.RecordDecision(1, "North Korea", sampleDecision(true), false))
	require.NoError(t, db.RecordDecision(2, "United States", sampleDecision(false), true))

	require.NoError(t, db.RecordEvent(scenario.Event{
		Cycle:       1,
		Time:        time.Now(),
		Nation:      "United States",
		Category:    "military",
		Description: "Deploy carrier group to South China Sea",
	}))

	state := actor.NewFactorState()
	state[actor.FactorThreatLevel] = 7.25
	require.NoError(t, db.RecordFactors(1, "United States", state))
	state[actor.FactorThreatLevel] = 8.5
	require.NoError(t, db.RecordFactors(2, "United States", state))

	runs, err := db.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, "standoff", runs[0].Scenario)
	assert.Equal(t, int64(42), runs[0].Seed)
	assert.Equal(t, "United States, North Korea", runs[0].Nations)
	assert.Equal(t, 3, runs[0].Decisions)
	assert.NotZero(t, runs[0].StartedAt)

	run, err := db.Run("run-1")
	require.NoError(t, err)
	assert.Equal(t, runs[0], run)

	recent, err := db.RecentDecisions("run-1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, uint64(2), recent[0].Cycle)
	assert.Equal(t, uint64(1), recent[1].Cycle)
	assert.Equal(t, "North Korea", recent[1].Nation)
	assert.True(t, recent[1].Irrational)
	assert.False(t, recent[1].Succeeded)

	trail, err := db.DecisionTrail("run-1", 100)
	require.NoError(t, err)
	require.Len(t, trail, 3)
	assert.Equal(t, uint64(1), trail[0].Cycle)
	assert.Equal(t, "United States", trail[0].Nation)
	assert.Equal(t, "military", trail[0].Category)
	assert.InDelta(t, 0.64, trail[0].Score, 1e-9)
	assert.True(t, trail[0].Succeeded)

	events, err := db.EventTrail("run-1", 100)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Deploy carrier group to South China Sea", events[0].Description)

	factors, err := db.FinalFactors("run-1")
	require.NoError(t, err)
	require.Len(t, factors, 1)
	assert.Equal(t, uint64(2), factors[0].Cycle)
	assert.InDelta(t, 8.5, factors[0].ThreatLevel, 1e-9)
	assert.InDelta(t, 5.0, factors[0].PublicSupport, 1e-9)
}

func TestRunsIsolated(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.BeginRun("run-a", "standoff", 1, []string{"Japan"}))
	require.NoError(t, db.RecordDecision(1, "Japan", sampleDecision(false), true))

	// A second BeginRun redirects appends to the new run.
	require.NoError(t, db.BeginRun("run-b", "standoff", 2, []string{"Japan"}))
	require.NoError(t, db.RecordDecision(1, "Japan", sampleDecision(false), false))
	require.NoError(t, db.RecordDecision(2, "Japan", sampleDecision(false), true))

	a, err := db.DecisionTrail("run-a", 100)
	require.NoError(t, err)
	assert.Len(t, a, 1)

	b, err := db.DecisionTrail("run-b", 100)
	require.NoError(t, err)
	assert.Len(t, b, 2)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.BeginRun("run-1", "standoff", 1, []string{"Japan"}))
	require.Error(t, db.BeginRun("run-1", "standoff", 1, []string{"Japan"}))
}

func TestUnknownRunReads(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Run("nope")
	require.Error(t, err)

	rows, err := db.DecisionTrail("nope", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFactorSnapshotUpsert(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.BeginRun("run-1", "standoff", 1, []string{"Japan"}))

	state := actor.NewFactorState()
	require.NoError(t, db.RecordFactors(1, "Japan", state))
	state[actor.FactorEconomicStatus] = 9.0
	require.NoError(t, db.RecordFactors(1, "Japan", state))

	factors, err := db.FinalFactors("run-1")
	require.NoError(t, err)
	require.Len(t, factors, 1)
	assert.InDelta(t, 9.0, factors[0].EconomicStatus, 1e-9)
}
