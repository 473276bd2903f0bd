package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/ragops/internal/bootstrap"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/evalModel"
	"github.com/akolanti/ragops/internal/eval"
	"github.com/akolanti/ragops/pkg/logger_i"
)

// evalgate runs one dataset end to end and exits non-zero when the
// resulting metrics miss the release thresholds.
func main() {
	gate := eval.DefaultGate()

	configPath := flag.String("config", config.SettingsPath(), "path to the settings file")
	dataset := flag.String("dataset", "", "dataset name under the eval dataset directory")
	name := flag.String("name", "ci-gate", "name recorded on the eval run")
	flag.Float64Var(&gate.MinGroundedness, "min-groundedness", gate.MinGroundedness, "minimum mean groundedness")
	flag.Float64Var(&gate.MaxHallucination, "max-hallucination", gate.MaxHallucination, "maximum hallucination rate")
	flag.Float64Var(&gate.MinSchemaCompliance, "min-schema-compliance", gate.MinSchemaCompliance, "minimum schema compliance")
	flag.Float64Var(&gate.MaxLatencyP95Ms, "max-latency-p95", gate.MaxLatencyP95Ms, "maximum p95 latency in milliseconds")
	flag.Parse()

	logger_i.InitWithWriter(os.Stderr, "info", config.IS_PROD)
	logger := logger_i.NewLogger("evalgate")

	if *dataset == "" {
		logger.Error("-dataset is required")
		os.Exit(2)
	}

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Invalid settings", "error", err)
		os.Exit(2)
	}
	logger_i.InitWithWriter(os.Stderr, settings.LogLevel, config.IS_PROD)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := bootstrap.Build(ctx, settings)
	if err != nil {
		logger.Error("Could not initialize services", "error", err)
		os.Exit(2)
	}

	code := run(ctx, stack, *name, *dataset, gate)
	stack.Close()
	stop()
	os.Exit(code)
}

func run(ctx context.Context, stack *bootstrap.Stack, name string, dataset string, gate eval.Gate) int {
	logger := logger_i.NewLogger("evalgate")

	created, err := stack.Evals.CreateRun(ctx, name, dataset)
	if err != nil {
		logger.Error("Could not create eval run", "dataset", dataset, "error", err)
		return 2
	}
	if err := stack.Runner.Run(ctx, created.Id); err != nil {
		logger.Error("Eval run failed", "evalId", created.Id, "error", err)
		return 2
	}

	result, _, err := stack.Evals.GetRun(ctx, created.Id)
	if err != nil {
		logger.Error("Could not load eval run", "evalId", created.Id, "error", err)
		return 2
	}
	if result.Status != evalModel.RunCompleted {
		logger.Error("Eval run did not complete", "evalId", created.Id, "status", result.Status, "reason", result.ErrorMessage)
		return 2
	}

	report, _ := json.MarshalIndent(result.Metrics, "", "  ")
	fmt.Println(string(report))

	failures := gate.Check(result.Metrics)
	for _, f := range failures {
		logger.Error("Gate failed", "check", f)
	}
	if len(failures) > 0 {
		return 1
	}
	logger.Info("Gate passed", "evalId", created.Id, "cases", result.TotalCases)
	return 0
}
