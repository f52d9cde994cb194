package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "ohlcvcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// AnalysisConfig tunes the price reconstruction model and the panel fan-out.
type AnalysisConfig struct {
	VolumeScale    int     `yaml:"volume_scale" envconfig:"VOLUME_SCALE" default:"10" validate:"gte=1"`
	PressureFactor float64 `yaml:"pressure_factor" envconfig:"PRESSURE_FACTOR" default:"3" validate:"gt=0"`
	// Seed makes sampling reproducible. Zero seeds from the clock.
	Seed           int64 `yaml:"seed" envconfig:"SEED" default:"0"`
	MaxConcurrency int   `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"4" validate:"gte=1,lte=256"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ohlcv-report.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"data/charts"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none" validate:"oneof=stdout none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1" validate:"gte=0,lte=1"`
	// MetricsFile receives the Prometheus text exposition after a run.
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

var validate = validator.New()

// Load loads configuration from environment variables and an optional
// YAML file. Explicitly set environment variables win over the file,
// and the file wins over defaults.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("load config from env", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, apperrors.NewConfigError("load config file "+configFile, err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs copies every non-zero file value whose environment
// variable is not set.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pick(&envConfig.Analysis.VolumeScale, fileConfig.Analysis.VolumeScale, "ANALYSIS_VOLUME_SCALE")
	pick(&envConfig.Analysis.PressureFactor, fileConfig.Analysis.PressureFactor, "ANALYSIS_PRESSURE_FACTOR")
	pick(&envConfig.Analysis.Seed, fileConfig.Analysis.Seed, "ANALYSIS_SEED")
	pick(&envConfig.Analysis.MaxConcurrency, fileConfig.Analysis.MaxConcurrency, "ANALYSIS_MAX_CONCURRENCY")

	pick(&envConfig.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	pick(&envConfig.Logging.Format, fileConfig.Logging.Format, "LOGGING_FORMAT")
	pick(&envConfig.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	pick(&envConfig.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")

	pick(&envConfig.Paths.DataDir, fileConfig.Paths.DataDir, "PATHS_DATA_DIR")
	pick(&envConfig.Paths.ReportsDir, fileConfig.Paths.ReportsDir, "PATHS_REPORTS_DIR")
	pick(&envConfig.Paths.ChartsDir, fileConfig.Paths.ChartsDir, "PATHS_CHARTS_DIR")
	pick(&envConfig.Paths.LogsDir, fileConfig.Paths.LogsDir, "PATHS_LOGS_DIR")

	pick(&envConfig.Telemetry.Environment, fileConfig.Telemetry.Environment, "TELEMETRY_ENVIRONMENT")
	pick(&envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER")
	pick(&envConfig.Telemetry.MetricExporter, fileConfig.Telemetry.MetricExporter, "TELEMETRY_METRIC_EXPORTER")
	pick(&envConfig.Telemetry.SampleRatio, fileConfig.Telemetry.SampleRatio, "TELEMETRY_SAMPLE_RATIO")
	pick(&envConfig.Telemetry.MetricsFile, fileConfig.Telemetry.MetricsFile, "TELEMETRY_METRICS_FILE")

	return envConfig
}

func pick[T comparable](dst *T, fileValue T, key string) {
	var zero T
	if fileValue == zero {
		return
	}
	if _, set := os.LookupEnv(EnvPrefix + "_" + key); set {
		return
	}
	*dst = fileValue
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	for _, location := range []string{"ohlcv.yaml", "configs/ohlcv.yaml"} {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			VolumeScale:    DefaultVolumeScale,
			PressureFactor: DefaultPressureFactor,
			MaxConcurrency: DefaultMaxConcurrency,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/ohlcv-report.log",
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
			ChartsDir:  DefaultChartsDir,
			LogsDir:    DefaultLogsDir,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1,
		},
	}
}

// String renders the configuration for debug logging.
func (c *Config) String() string {
	return fmt.Sprintf("analysis=%+v logging=%+v paths=%+v telemetry=%+v",
		c.Analysis, c.Logging, c.Paths, c.Telemetry)
}
