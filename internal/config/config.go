// Package config loads, defaults, and validates the application
// configuration from YAML files with ${VAR} environment interpolation.
package config

import (
	"github.com/mlnomadpy/dronify/internal/llm"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

// Config is the root configuration.
type Config struct {
	Server     ServerConfig         `mapstructure:"server" yaml:"server"`
	Vehicle    vehicle.Config       `mapstructure:"vehicle" yaml:"vehicle"`
	LLM        llm.ProviderConfig   `mapstructure:"llm" yaml:"llm"`
	Classifier llm.ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
	Engine     EngineConfig         `mapstructure:"engine" yaml:"engine"`
	Logging    LoggingConfig        `mapstructure:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Address is the listen address for the HTTP API ("host:port").
	Address string `mapstructure:"address" yaml:"address"`

	// VideoFPS is the target frame rate for the MJPEG video feed.
	VideoFPS int `mapstructure:"video_fps" yaml:"video_fps" validate:"min=0,max=60"`
}

// EngineConfig contains command interpretation tunables.
type EngineConfig struct {
	// ClassifyThreshold is the zero-shot acceptance threshold. A top score
	// at or above it is accepted as the interpreted action.
	ClassifyThreshold float64 `mapstructure:"classify_threshold" yaml:"classify_threshold" validate:"min=0,max=1"`

	// ConfidenceFloor is the plan confidence below which execution is
	// replaced with a single hover.
	ConfidenceFloor float64 `mapstructure:"confidence_floor" yaml:"confidence_floor" validate:"min=0,max=1"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=json text"`
}
