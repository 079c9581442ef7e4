package configs

// Config holds all configuration for the live detector service.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// AnalysisConfig holds the live bottleneck-analysis configuration: which call
// log to tail, the source/sink pair to analyze, and the pipeline parameters.
type AnalysisConfig struct {
	LogPath        string `mapstructure:"log_path" validate:"required"`
	Source         string `mapstructure:"source" validate:"required"`
	Sink           string `mapstructure:"sink" validate:"required"`
	WindowSeconds  int    `mapstructure:"window_seconds" validate:"required,min=1"`
	StepSeconds    int    `mapstructure:"step_seconds" validate:"required,min=1"`
	CapacityMetric string `mapstructure:"capacity_metric" validate:"required,oneof=default throughput latency"`

	PollIntervalMillis     int `mapstructure:"poll_interval_millis" validate:"required,min=1"`
	AnalyzeIntervalSeconds int `mapstructure:"analyze_interval_seconds" validate:"required,min=1"`

	TopK          int `mapstructure:"top_k" validate:"required,min=1"`
	HighlightTopK int `mapstructure:"highlight_top_k" validate:"required,min=1"`
}
