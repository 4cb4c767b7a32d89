// Command replay inspects journaled crisis runs: list past runs, dump a
// run's decision trail, and show where each nation's factors ended up.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/flashpoint/internal/journal"
)

func main() {
	dbPath := flag.String("db", "flashpoint.db", "journal database path")
	runID := flag.String("run", "", "run id to replay (default: most recent)")
	limit := flag.Int("limit", 100, "max decisions/events to print")
	withEvents := flag.Bool("events", false, "also print the event trail")
	list := flag.Bool("list", false, "list journaled runs and exit")
	flag.Parse()

	db, err := journal.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open journal: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *list {
		listRuns(db)
		return
	}

	id := *runID
	if id == "" {
		runs, err := db.Runs(1)
		if err != nil {
			fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
			os.Exit(1)
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "no runs journaled yet")
			os.Exit(1)
		}
		id = runs[0].ID
	}

	replayRun(db, id, *limit, *withEvents)
}

func listRuns(db *journal.DB) {
	runs, err := db.Runs(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs journaled yet.")
		return
	}

	fmt.Printf("%-36s  %-12s  %-12s  %9s  %s\n", "RUN", "SCENARIO", "SEED", "DECISIONS", "STARTED")
	for _, r := range runs {
		fmt.Printf("%-36s  %-12s  %-12d  %9s  %s\n",
			r.ID, r.Scenario, r.Seed,
			humanize.Comma(int64(r.Decisions)),
			humanize.Time(time.Unix(r.StartedAt, 0)),
		)
	}
}

func replayRun(db *journal.DB, id string, limit int, withEvents bool) {
	run, err := db.Run(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run %s: %v\n", id, err)
		os.Exit(1)
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("Scenario %q, seed %d, started %s, %s decisions.\n",
		run.Scenario, run.Seed,
		humanize.Time(time.Unix(run.StartedAt, 0)),
		humanize.Comma(int64(run.Decisions)),
	)
	fmt.Printf("Cast: %s\n\n", run.Nations)

	decisions, err := db.DecisionTrail(run.ID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decision trail: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%5s  %-14s  %-13s  %6s  %-5s  %s\n", "CYCLE", "NATION", "CATEGORY", "SCORE", "OK", "ACTION")
	sawIrrational := false
	for _, d := range decisions {
		result := "ok"
		if !d.Succeeded {
			result = "fail"
		}
		if d.Irrational {
			result += "*"
			sawIrrational = true
		}
		fmt.Printf("%5d  %-14s  %-13s  %6.2f  %-5s  %s\n",
			d.Cycle, d.Nation, d.Category, d.Score, result, d.Description)
	}
	if sawIrrational {
		fmt.Println("\n* impulsive pick, not the top-scored action")
	}

	if withEvents {
		events, err := db.EventTrail(run.ID, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "event trail: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%5s  %-14s  %-11s  %s\n", "CYCLE", "NATION", "CATEGORY", "EVENT")
		for _, e := range events {
			fmt.Printf("%5d  %-14s  %-11s  %s\n", e.Cycle, e.Nation, e.Category, e.Description)
		}
	}

	factors, err := db.FinalFactors(run.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "final factors: %v\n", err)
		os.Exit(1)
	}
	if len(factors) > 0 {
		fmt.Println("\nFinal factor states:")
		fmt.Printf("%-14s  %5s  %8s  %6s  %8s  %6s  %6s\n",
			"NATION", "CYCLE", "MILITARY", "PUBLIC", "PRESSURE", "ECON", "THREAT")
		for _, f := range factors {
			fmt.Printf("%-14s  %5d  %8.2f  %6.2f  %8.2f  %6.2f  %6.2f\n",
				f.Nation, f.Cycle, f.MilitaryStrength, f.PublicSupport,
				f.InternationalPressure, f.EconomicStatus, f.ThreatLevel)
		}
	}
}
