// Package config loads the ohlcv-report configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. A YAML file named by OHLCV_CONFIG_FILE, or ohlcv.yaml / configs/ohlcv.yaml
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern OHLCV_<SECTION>_<FIELD>:
//
//	OHLCV_ANALYSIS_VOLUME_SCALE=10
//	OHLCV_ANALYSIS_PRESSURE_FACTOR=3
//	OHLCV_ANALYSIS_SEED=42
//	OHLCV_ANALYSIS_MAX_CONCURRENCY=4
//	OHLCV_LOGGING_LEVEL=debug
//	OHLCV_PATHS_REPORTS_DIR=/var/lib/ohlcv/reports
//	OHLCV_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/ohlcv.prom
//
// # File Format
//
//	analysis:
//	  volume_scale: 20
//	  seed: 7
//	logging:
//	  level: debug
//	  output: both
//
// Every section is checked with go-playground/validator struct tags after
// merging; Load returns a CONFIG AppError when a value is out of range.
//
// # Paths
//
// ResolvePaths turns the configured directories into absolute paths rooted at
// the working directory and EnsureDirectories creates the output folders.
package config
