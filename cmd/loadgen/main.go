package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"courierdispatch/internal/loadgen"
)

func main() {
	var cfg loadgen.Config
	flag.StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "base URL of the dispatch service")
	flag.IntVar(&cfg.Workers, "workers", 10, "number of concurrent workers")
	flag.IntVar(&cfg.Iterations, "iterations", 100, "workflow runs per worker")
	flag.DurationVar(&cfg.Timeout, "timeout", loadgen.DefaultTimeout, "per request timeout")
	flag.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := loadgen.NewRunner(cfg, logger)
	started := time.Now()
	if err := runner.Run(ctx); err != nil {
		logger.Warn("Run interrupted", "error", err)
	}

	fmt.Printf("%d couriers, %d orders in %s\n",
		runner.Sequence().Couriers(), runner.Sequence().Orders(), time.Since(started).Round(time.Millisecond))
	snapshot := runner.Stats().Snapshot()
	for _, endpoint := range runner.Stats().Endpoints() {
		byStatus := snapshot[endpoint]
		statuses := make([]int, 0, len(byStatus))
		for status := range byStatus {
			statuses = append(statuses, status)
		}
		slices.Sort(statuses)
		for _, status := range statuses {
			fmt.Printf("%-24s %3d %d\n", endpoint, status, byStatus[status])
		}
	}
}
