// Package journal provides the SQLite decision journal. Every run gets
// a row in runs; decisions, events, and factor snapshots append under
// that run id as the scenario produces them.
// See design doc Section 6.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/flashpoint/internal/actor"
	"github.com/talgya/flashpoint/internal/scenario"
)

// DB wraps a SQLite connection holding run journals.
type DB struct {
	conn  *sqlx.DB
	runID string
}

var _ scenario.Recorder = (*DB)(nil)

// Open opens or creates a journal database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		seed INTEGER NOT NULL,
		nations TEXT NOT NULL,
		started_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		nation TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		score REAL NOT NULL,
		irrational INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		nation TEXT,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS factor_states (
		run_id TEXT NOT NULL,
		cycle INTEGER NOT NULL,
		nation TEXT NOT NULL,
		military_strength REAL NOT NULL,
		public_support REAL NOT NULL,
		international_pressure REAL NOT NULL,
		economic_status REAL NOT NULL,
		threat_level REAL NOT NULL,
		PRIMARY KEY (run_id, cycle, nation)
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_run ON decisions(run_id, cycle);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, cycle);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun registers a run and directs subsequent appends to it.
func (db *DB) BeginRun(runID, scenarioName string, seed int64, nations []string) error {
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, scenario, seed, nations, started_at) VALUES (?, ?, ?, ?, ?)",
		runID, scenarioName, seed, strings.Join(nations, ", "), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("begin run %s: %w", runID, err)
	}
	db.runID = runID
	return nil
}

// RecordDecision appends one committed decision to the current run.
func (db *DB) RecordDecision(cycle uint64, nation string, dec actor.Decision, succeeded bool) error {
	irrational := 0
	if dec.Irrational {
		irrational = 1
	}
	ok := 0
	if succeeded {
		ok = 1
	}

	_, err := db.conn.Exec(`INSERT INTO decisions
		(run_id, cycle, nation, category, description, score, irrational, succeeded, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		db.runID, cycle, nation, dec.Action.Category.String(), dec.Action.Description,
		dec.Score, irrational, ok, time.Now().Unix(),
	)
	return err
}

// RecordEvent appends one scenario event to the current run.
func (db *DB) RecordEvent(ev scenario.Event) error {
	_, err := db.conn.Exec(`INSERT INTO events
		(run_id, cycle, nation, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		db.runID, ev.Cycle, ev.Nation, ev.Category, ev.Description, ev.Time.Unix(),
	)
	return err
}

// RecordFactors snapshots one nation's factor state for a cycle.
func (db *DB) RecordFactors(cycle uint64, nation string, state actor.FactorState) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO factor_states
		(run_id, cycle, nation, military_strength, public_support,
		 international_pressure, economic_status, threat_level)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		db.runID, cycle, nation,
		state[actor.FactorMilitaryStrength],
		state[actor.FactorPublicSupport],
		state[actor.FactorInternationalPressure],
		state[actor.FactorEconomicStatus],
		state[actor.FactorThreatLevel],
	)
	return err
}

// RunRow summarizes one journaled run.
type RunRow struct {
	ID        string `db:"id" json:"id"`
	Scenario  string `db:"scenario" json:"scenario"`
	Seed      int64  `db:"seed" json:"seed"`
	Nations   string `db:"nations" json:"nations"`
	StartedAt int64  `db:"started_at" json:"started_at"`
	Decisions int    `db:"decisions" json:"decisions"`
}

// Runs returns the most recent runs, newest first, with decision counts.
func (db *DB) Runs(limit int) ([]RunRow, error) {
	var rows []RunRow
	err := db.conn.Select(&rows, `
		SELECT r.id, r.scenario, r.seed, r.nations, r.started_at,
		       (SELECT COUNT(*) FROM decisions d WHERE d.run_id = r.id) AS decisions
		FROM runs r ORDER BY r.started_at DESC, r.id LIMIT ?`, limit)
	return rows, err
}

// Run looks up a single run by id.
func (db *DB) Run(runID string) (RunRow, error) {
	var row RunRow
	err := db.conn.Get(&row, `
		SELECT r.id, r.scenario, r.seed, r.nations, r.started_at,
		       (SELECT COUNT(*) FROM decisions d WHERE d.run_id = r.id) AS decisions
		FROM runs r WHERE r.id = ?`, runID)
	return row, err
}

// DecisionRow is one journaled decision.
type DecisionRow struct {
	Cycle       uint64  `db:"cycle" json:"cycle"`
	Nation      string  `db:"nation" json:"nation"`
	Category    string  `db:"category" json:"category"`
	Description string  `db:"description" json:"description"`
	Score       float64 `db:"score" json:"score"`
	Irrational  bool    `db:"irrational" json:"irrational"`
	Succeeded   bool    `db:"succeeded" json:"succeeded"`
	CreatedAt   int64   `db:"created_at" json:"created_at"`
}

const decisionColumns = "cycle, nation, category, description, score, irrational, succeeded, created_at"

// RecentDecisions returns a run's newest decisions, newest first.
func (db *DB) RecentDecisions(runID string, limit int) ([]DecisionRow, error) {
	var rows []DecisionRow
	err := db.conn.Select(&rows,
		"SELECT "+decisionColumns+" FROM decisions WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	return rows, err
}

// DecisionTrail returns a run's decisions in commit order, oldest first.
func (db *DB) DecisionTrail(runID string, limit int) ([]DecisionRow, error) {
	var rows []DecisionRow
	err := db.conn.Select(&rows,
		"SELECT "+decisionColumns+" FROM decisions WHERE run_id = ? ORDER BY id LIMIT ?",
		runID, limit,
	)
	return rows, err
}

// EventRow is one journaled event.
type EventRow struct {
	Cycle       uint64 `db:"cycle" json:"cycle"`
	Nation      string `db:"nation" json:"nation"`
	Category    string `db:"category" json:"category"`
	Description string `db:"description" json:"description"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
}

// EventTrail returns a run's events in append order, oldest first.
func (db *DB) EventTrail(runID string, limit int) ([]EventRow, error) {
	var rows []EventRow
	err := db.conn.Select(&rows,
		`SELECT cycle, nation, category, description, created_at
		 FROM events WHERE run_id = ? ORDER BY id LIMIT ?`,
		runID, limit,
	)
	return rows, err
}

// FactorRow is one nation's journaled factor snapshot.
type FactorRow struct {
	Nation                string  `db:"nation" json:"nation"`
	Cycle                 uint64  `db:"cycle" json:"cycle"`
	MilitaryStrength      float64 `db:"military_strength" json:"military_strength"`
	PublicSupport         float64 `db:"public_support" json:"public_support"`
	InternationalPressure float64 `db:"international_pressure" json:"international_pressure"`
	EconomicStatus        float64 `db:"economic_status" json:"economic_status"`
	ThreatLevel           float64 `db:"threat_level" json:"threat_level"`
}

// FinalFactors returns each nation's last recorded factor state for a run.
func (db *DB) FinalFactors(runID string) ([]FactorRow, error) {
	var rows []FactorRow
	err := db.conn.Select(&rows, `
		SELECT f.nation, f.cycle, f.military_strength, f.public_support,
		       f.international_pressure, f.economic_status, f.threat_level
		FROM factor_states f
		JOIN (
			SELECT nation, MAX(cycle) AS max_cycle
			FROM factor_states WHERE run_id = ? GROUP BY nation
		) m ON f.nation = m.nation AND f.cycle = m.max_cycle
		WHERE f.run_id = ?
		ORDER BY f.nation`, runID, runID)
	return rows, err
}
