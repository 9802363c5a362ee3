package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/knap/internal/application"
	"github.com/eugenenazirov/knap/internal/config"
	"github.com/eugenenazirov/knap/internal/logging"
)

func main() {
	overrides, err := parseFlags(os.Args[1:])
	kingpin.FatalIfError(err, "invalid arguments")

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New("knap-server")
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
	logger.Info("limits",
		zap.Int("max_capacity", cfg.MaxCapacity),
		zap.Int("max_table_cells", cfg.MaxTableCells),
		zap.Float64("rate_limit_rps", cfg.RateLimitRPS),
		zap.Float64("solve_rate_limit_rps", cfg.SolveRateLimitRPS),
		zap.Int("catalog_items", len(cfg.InitialItems)),
	)

	shutdownOnDone(ctx, app.Server(), cfg.ShutdownGracePeriod, logger)
}

// parseFlags maps command line flags onto config overrides. Flags the user did not pass
// stay nil so lower precedence sources keep their values.
func parseFlags(args []string) (*config.CLIOverrides, error) {
	app := kingpin.New("knap-server", "Knapsack solver service - selects the most valuable items that fit a capacity")

	var (
		overrides                                    config.CLIOverrides
		port, items                                  string
		maxCapacity, burst, solveBurst               int
		rps, solveRPS                                float64
		portSet, itemsSet, maxCapSet                 bool
		rpsSet, burstSet, solveRPSSet, solveBurstSet bool
	)

	app.Flag("config", "Path to YAML configuration file").StringVar(&overrides.ConfigFile)
	app.Flag("port", "HTTP port exposed by the service").IsSetByUser(&portSet).StringVar(&port)
	app.Flag("items", "Initial catalog as id:weight:value,...").IsSetByUser(&itemsSet).StringVar(&items)
	app.Flag("max-capacity", "Largest capacity a solve accepts").IsSetByUser(&maxCapSet).IntVar(&maxCapacity)
	app.Flag("rate-limit-rps", "Catalog and health requests per second (0 disables)").IsSetByUser(&rpsSet).Float64Var(&rps)
	app.Flag("rate-limit-burst", "Burst for catalog and health requests").IsSetByUser(&burstSet).IntVar(&burst)
	app.Flag("solve-rate-limit-rps", "Solve and compare requests per second (0 disables)").IsSetByUser(&solveRPSSet).Float64Var(&solveRPS)
	app.Flag("solve-rate-limit-burst", "Burst for solve and compare requests").IsSetByUser(&solveBurstSet).IntVar(&solveBurst)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}

	if portSet {
		overrides.Port = &port
	}
	if itemsSet {
		overrides.ItemsStr = &items
	}
	if maxCapSet {
		overrides.MaxCapacity = &maxCapacity
	}
	if rpsSet {
		overrides.RateLimitRPS = &rps
	}
	if burstSet {
		overrides.RateLimitBurst = &burst
	}
	if solveRPSSet {
		overrides.SolveRateLimitRPS = &solveRPS
	}
	if solveBurstSet {
		overrides.SolveRateLimitBurst = &solveBurst
	}
	return &overrides, nil
}

// shutdownOnDone blocks until ctx is cancelled, then drains the server within timeout
// and closes it forcibly if draining fails.
func shutdownOnDone(ctx context.Context, server *http.Server, timeout time.Duration, logger *zap.Logger) {
	<-ctx.Done()
	logger.Info("shutting down server", zap.Duration("grace_period", timeout))

	drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(drainCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
