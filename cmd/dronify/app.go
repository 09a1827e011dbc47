package main

import (
	"log/slog"
	"os"

	"github.com/mlnomadpy/dronify/internal/classify"
	"github.com/mlnomadpy/dronify/internal/config"
	"github.com/mlnomadpy/dronify/internal/engine"
	"github.com/mlnomadpy/dronify/internal/llm"
	"github.com/mlnomadpy/dronify/internal/llm/providers"
	"github.com/mlnomadpy/dronify/internal/plan"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

// buildEngine assembles the command engine from configuration: vehicle
// controller, zero-shot classifier (when an endpoint is configured), and
// vision planner (when a provider can be constructed).
func buildEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	controller, err := vehicle.NewController(cfg.Vehicle)
	if err != nil {
		return nil, err
	}

	var zeroShot llm.ZeroShotClassifier
	if cfg.Classifier.Endpoint != "" {
		zeroShot = providers.NewZeroShotClient(cfg.Classifier)
	}
	classifier := classify.New(zeroShot,
		classify.WithThreshold(cfg.Engine.ClassifyThreshold),
		classify.WithLogger(logger),
	)

	var planner *plan.Planner
	generator, err := providers.NewVisionGenerator(cfg.LLM)
	if err != nil {
		// Planning is optional; keyword commands still work without it.
		logger.Warn("vision generator unavailable, text-only mode", "error", err)
	} else {
		planner = plan.New(generator,
			plan.WithConfidenceFloor(cfg.Engine.ConfidenceFloor),
			plan.WithLogger(logger),
		)
	}

	return engine.New(engine.Config{
		Controller: controller,
		Classifier: classifier,
		Planner:    planner,
		Logger:     logger,
	}), nil
}

// newLogger builds the process logger from the logging config.
func newLogger(cfg *config.Config) *slog.Logger {
	return config.NewLogger(cfg.Logging, os.Stderr)
}
