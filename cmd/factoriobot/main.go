// Command factoriobot launches and supervises one Factorio instance,
// bringing up the WorldMirror/EntityGraph/FlowGraph/Rcon/ProcessSupervisor
// stack behind internal/application/controller.Controller and keeping it
// running until interrupted. Configuration loading is entirely
// environment/file driven (internal/infrastructure/config); there is no
// command-line argument surface by design (spec.md's Non-goals explicitly
// exclude CLI argument parsing).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/andrescamacho/factoriobot/internal/adapters/metrics"
	"github.com/andrescamacho/factoriobot/internal/adapters/persistence"
	"github.com/andrescamacho/factoriobot/internal/adapters/supervisor"
	"github.com/andrescamacho/factoriobot/internal/application/controller"
	"github.com/andrescamacho/factoriobot/internal/domain/shared"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/config"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/database"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/logging"
	"github.com/andrescamacho/factoriobot/internal/infrastructure/pidfile"
)

func main() {
	fmt.Println("factoriobot controller")
	fmt.Println("=======================")

	cfg := config.MustLoadConfig("")
	log.Printf("loaded config for instance workspace %s", cfg.Instance.WorkspacePath)

	pidPath := filepath.Join(cfg.Instance.WorkspacePath, "factoriobot.pid")
	pf := pidfile.New(pidPath)
	if err := pf.Acquire(); err != nil {
		log.Fatalf("failed to acquire PID file lock: %v", err)
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("warning: failed to release PID file: %v", err)
		}
	}()

	if err := run(cfg); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger := logging.New("factoriobot", cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.NewConnection(&cfg.Persistence)
	if err != nil {
		return fmt.Errorf("failed to open audit database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to auto-migrate audit database: %w", err)
	}

	history := persistence.NewGormTaskHistoryRepository(db, nil)

	ctrl := controller.New(cfg, logger, shared.NewRealClock(), history)

	metricsServer := setupMetrics(cfg)
	if metricsServer != nil {
		metricsServer.Start()
		log.Printf("metrics server listening on %s:%d%s", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("starting supervised instance...")
	if err := ctrl.Start(ctx, supervisor.DiscoveryComplete); err != nil {
		return fmt.Errorf("failed to start instance: %w", err)
	}
	log.Printf("instance ready (session %s)", ctrl.SessionID())

	<-ctx.Done()

	log.Println("shutdown signal received, stopping instance...")
	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Supervisor.ShutdownTimeout)
	defer cancel()
	if err := ctrl.Stop(stopCtx); err != nil {
		log.Printf("warning: failed to stop instance cleanly: %v", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Stop(stopCtx); err != nil {
			log.Printf("warning: failed to stop metrics server cleanly: %v", err)
		}
	}

	log.Println("factoriobot stopped")
	return nil
}

// setupMetrics wires the Prometheus registry and collectors if
// cfg.Metrics.Enabled, returning the HTTP server to start/stop alongside
// the instance. Returns nil when metrics are disabled.
func setupMetrics(cfg *config.Config) *metrics.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}
	metrics.InitRegistry()

	taskCollector := metrics.NewTaskMetricsCollector()
	if err := taskCollector.Register(); err != nil {
		log.Printf("warning: failed to register task metrics: %v", err)
	}
	metrics.SetGlobalTaskCollector(taskCollector)

	rconCollector := metrics.NewRconMetricsCollector()
	if err := rconCollector.Register(); err != nil {
		log.Printf("warning: failed to register rcon metrics: %v", err)
	}
	metrics.SetGlobalRconCollector(rconCollector)

	addr := fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port)
	return metrics.NewServer(addr, cfg.Metrics.Path)
}
