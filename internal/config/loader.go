package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/mlnomadpy/dronify/internal/types"
)

// ConfigLoader handles loading configuration from files.
type ConfigLoader interface {
	Load(path string) (*Config, error)
	LoadWithDefaults(path string) (*Config, error)
}

// viperConfigLoader implements ConfigLoader using Viper.
type viperConfigLoader struct {
	validator ConfigValidator
}

// NewConfigLoader creates a new ConfigLoader instance.
func NewConfigLoader(validator ConfigValidator) ConfigLoader {
	return &viperConfigLoader{
		validator: validator,
	}
}

// Load loads configuration from the specified file path. Missing keys keep
// their defaults; ${VAR_NAME} values are interpolated from the environment.
// Returns an error if the file doesn't exist or cannot be parsed.
func (l *viperConfigLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "failed to read config file", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_PARSE_FAILED, "failed to unmarshal config", err)
	}

	applyInterpolation(&cfg)

	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration from the specified file path.
// If the file doesn't exist, returns the default configuration.
func (l *viperConfigLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := l.validator.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return l.Load(path)
}

// setDefaults seeds viper with DefaultConfig so partial files work.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.video_fps", d.Server.VideoFPS)
	v.SetDefault("vehicle.mode", d.Vehicle.Mode)
	v.SetDefault("vehicle.address", d.Vehicle.Address)
	v.SetDefault("vehicle.timeout_seconds", d.Vehicle.TimeoutSeconds)
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("classifier.timeout_seconds", d.Classifier.TimeoutSeconds)
	v.SetDefault("engine.classify_threshold", d.Engine.ClassifyThreshold)
	v.SetDefault("engine.confidence_floor", d.Engine.ConfidenceFloor)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// envVarPattern matches ${VAR_NAME}.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateString replaces ${VAR_NAME} with environment variable values.
// Unset variables are left as-is.
func interpolateString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if envValue := os.Getenv(varName); envValue != "" {
			return envValue
		}
		return match
	})
}

// applyInterpolation interpolates the string fields that commonly carry
// secrets or deployment-specific endpoints.
func applyInterpolation(cfg *Config) {
	cfg.Server.Address = interpolateString(cfg.Server.Address)
	cfg.Vehicle.Address = interpolateString(cfg.Vehicle.Address)
	cfg.LLM.BaseURL = interpolateString(cfg.LLM.BaseURL)
	cfg.LLM.APIKey = interpolateString(cfg.LLM.APIKey)
	cfg.LLM.Model = interpolateString(cfg.LLM.Model)
	cfg.Classifier.Endpoint = interpolateString(cfg.Classifier.Endpoint)
	cfg.Logging.Level = interpolateString(cfg.Logging.Level)
	cfg.Logging.Format = interpolateString(cfg.Logging.Format)
}
