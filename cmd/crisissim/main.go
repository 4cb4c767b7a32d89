// Command crisissim runs the FLASHPOINT geopolitical crisis simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/talgya/flashpoint/internal/api"
	"github.com/talgya/flashpoint/internal/catalog"
	"github.com/talgya/flashpoint/internal/engine"
	"github.com/talgya/flashpoint/internal/entropy"
	"github.com/talgya/flashpoint/internal/journal"
	"github.com/talgya/flashpoint/internal/scenario"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("FLASHPOINT / Geopolitical Crisis Simulation")

	// ── Action pool ───────────────────────────────────────────────────
	pool, err := catalog.Load()
	if err != nil {
		slog.Error("failed to load action pool", "error", err)
		os.Exit(1)
	}
	slog.Info("action pool loaded", "nations", len(pool.Nations()))

	// ── Scenario ──────────────────────────────────────────────────────
	cfg := scenario.DefaultConfig()
	if path := os.Getenv("FLASHPOINT_SCENARIO"); path != "" {
		cfg, err = scenario.LoadConfig(path)
		if err != nil {
			slog.Error("failed to load scenario config", "path", path, "error", err)
			os.Exit(1)
		}
		slog.Info("scenario config loaded", "path", path, "name", cfg.Name)
	}

	if cfg.Seed == 0 {
		cfg.Seed = envInt64OrDefault("FLASHPOINT_SEED", 0)
	}
	if cfg.Seed == 0 {
		cfg.Seed = entropy.Seed()
		slog.Info("no seed pinned, generated one", "seed", cfg.Seed)
	}

	sim, err := scenario.New(cfg, pool)
	if err != nil {
		slog.Error("failed to build scenario", "error", err)
		os.Exit(1)
	}
	slog.Info("scenario ready",
		"name", cfg.Name,
		"seed", cfg.Seed,
		"nations", len(sim.Nations()),
		"run_id", sim.RunID(),
	)

	// ── Journal ───────────────────────────────────────────────────────
	dbPath := envOrDefault("FLASHPOINT_DB", "flashpoint.db")
	db, err := journal.Open(dbPath)
	if err != nil {
		slog.Error("failed to open journal", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.BeginRun(sim.RunID(), cfg.Name, cfg.Seed, sim.Nations()); err != nil {
		slog.Error("failed to register run", "error", err)
		os.Exit(1)
	}
	sim.Recorder = db
	slog.Info("journal opened", "path", dbPath)

	// ── Engine ────────────────────────────────────────────────────────
	interval := envDurationOrDefault("FLASHPOINT_TICK", 2*time.Second)
	eng := engine.New(interval)
	eng.OnCycle = sim.RunCycle

	// ── HTTP API ──────────────────────────────────────────────────────
	adminKey := os.Getenv("FLASHPOINT_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("FLASHPOINT_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}

	apiServer := &api.Server{
		Sim:      sim,
		Eng:      eng,
		DB:       db,
		Port:     envIntOrDefault("FLASHPOINT_PORT", 8080),
		AdminKey: adminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	fmt.Printf("\n%s: %d nations at the table, tension %.0f.\n",
		cfg.Name, len(sim.Nations()), sim.Tension())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", apiServer.Port)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run()

	fmt.Printf("Simulation stopped after %d cycles. Journal: %s\n", sim.Cycle(), dbPath)
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("FLASHPOINT_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envInt64OrDefault(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultVal
}

func envDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
