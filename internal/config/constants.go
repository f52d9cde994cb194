package config

// Application constants
const (
	AppName    = "ohlcv-report"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. OHLCV_ANALYSIS_SEED.
	EnvPrefix = "OHLCV"
	// ConfigFileEnv names an explicit YAML configuration file.
	ConfigFileEnv = "OHLCV_CONFIG_FILE"

	// Analysis defaults
	DefaultVolumeScale    = 10
	DefaultPressureFactor = 3.0
	DefaultMaxConcurrency = 4

	// File paths (relative to the working directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultChartsDir  = "data/charts"
	DefaultLogsDir    = "logs"

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Report file names
	MarketInfoFile    = "market_info.csv"
	PanelMetricsFile  = "panel_metrics.csv"
	PanelWorkbookFile = "panel_metrics.xlsx"
)
