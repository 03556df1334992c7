package global

import (
	"fmt"
	"strings"
	"time"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/ChiaYuChang/pwsscraper/pkgs/utils"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ModeDev  = "dev"
	ModeProd = "prod"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// EnvPrefix is prepended to every environment variable read by viper,
// e.g. PWS_WORKERS_PARALLELISM.
const EnvPrefix = "PWS"

// DefaultParallelism is the number of concurrent page fetches.
const DefaultParallelism = 4

// DefaultStations are the North Vancouver stations the tool was written for.
var DefaultStations = []models.Station{
	{Name: "Best Point", URL: "https://www.wunderground.com/dashboard/pws/INORTH193"},
	{Name: "Little Cates Park", URL: "https://www.wunderground.com/dashboard/pws/INORTH428"},
	{Name: "Stone Haven", URL: "https://www.wunderground.com/dashboard/pws/INORTH269"},
	{Name: "Deep Cove", URL: "https://www.wunderground.com/dashboard/pws/IBRITISH267"},
}

type ZeroLogConfig struct {
	Level       string `json:"level"        mapstructure:"level"        validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Console     bool   `json:"console"      mapstructure:"console"`
	NatsURL     string `json:"nats_url"     mapstructure:"nats_url"     validate:"omitempty,url"`
	NatsSubject string `json:"nats_subject" mapstructure:"nats_subject"`
}

type OtelConfig struct {
	ServiceName       string `json:"service_name"       mapstructure:"service_name"`
	CollectorEndpoint string `json:"collector_endpoint" mapstructure:"collector_endpoint"`
	Insecure          bool   `json:"insecure"           mapstructure:"insecure"`
}

type HTTPConfig struct {
	Timeout   time.Duration `json:"timeout"    mapstructure:"timeout"    validate:"gt=0"`
	UserAgent string        `json:"user_agent" mapstructure:"user_agent"`
}

type WorkerConfig struct {
	Parallelism int `json:"parallelism" mapstructure:"parallelism" validate:"min=1"`
}

type OutputConfig struct {
	Format      string `json:"format"       mapstructure:"format"       validate:"oneof=text json"`
	All         bool   `json:"all"          mapstructure:"all"`
	File        string `json:"file"         mapstructure:"file"`
	MetricsFile string `json:"metrics_file" mapstructure:"metrics_file"`
	NatsSubject string `json:"nats_subject" mapstructure:"nats_subject"`
}

// Config is the configuration of the scraper.
type Config struct {
	Mode     string           `json:"mode"     mapstructure:"mode"     validate:"oneof=dev prod"`
	Stations []models.Station `json:"stations" mapstructure:"stations" validate:"required,min=1,dive"`
	HTTP     HTTPConfig       `json:"http"     mapstructure:"http"`
	Workers  WorkerConfig     `json:"workers"  mapstructure:"workers"`
	Logger   ZeroLogConfig    `json:"logger"   mapstructure:"logger"`
	Otel     OtelConfig       `json:"otel"     mapstructure:"otel"`
	Output   OutputConfig     `json:"output"   mapstructure:"output"`
}

// Validate checks field constraints and that station names are unique.
func (c *Config) Validate() error {
	if err := Validator().Struct(c); err != nil {
		return ec.ErrValidationFailed.Clone().
			WithDetails(err.Error()).
			Warp(err)
	}

	names := make([]string, len(c.Stations))
	for i, s := range c.Stations {
		names[i] = s.Name
	}
	if dups := utils.Duplicates(names); len(dups) > 0 {
		return ec.ErrValidationFailed.Clone().
			WithMessage("duplicate station names").
			WithDetails(dups...)
	}
	return nil
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	stations := make([]map[string]any, len(DefaultStations))
	for i, s := range DefaultStations {
		stations[i] = map[string]any{"name": s.Name, "url": s.URL}
	}

	v.SetDefault("mode", ModeDev)
	v.SetDefault("stations", stations)
	v.SetDefault("http.timeout", 5*time.Second)
	v.SetDefault("http.user_agent", "")
	v.SetDefault("workers.parallelism", DefaultParallelism)
	v.SetDefault("logger.level", "")
	v.SetDefault("logger.console", true)
	v.SetDefault("logger.nats_url", "")
	v.SetDefault("logger.nats_subject", NATSLogSubject)
	v.SetDefault("otel.service_name", "pwsscraper")
	v.SetDefault("otel.collector_endpoint", "")
	v.SetDefault("otel.insecure", true)
	v.SetDefault("output.format", FormatText)
	v.SetDefault("output.all", false)
	v.SetDefault("output.file", "")
	v.SetDefault("output.metrics_file", "")
	v.SetDefault("output.nats_subject", "")
}

// RegisterFlags adds the command line flags that override configuration
// keys and binds them to v.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	fs.String("mode", ModeDev, "Running mode (dev, prod)")
	fs.Duration("timeout", 5*time.Second, "Timeout of a single page fetch")
	fs.Int("parallelism", DefaultParallelism, "Number of concurrent page fetches")
	fs.StringP("format", "o", FormatText, "Output format (text, json)")
	fs.BoolP("all", "a", false, "Print every sub-record instead of wind only")
	fs.StringP("file", "f", "", "Parse a saved dashboard page instead of fetching")
	fs.String("metrics-file", "", "Write Prometheus metrics to this file after the run")
	fs.String("log-level", "", "Log level (trace, debug, info, warn, error)")

	bindings := map[string]string{
		"mode":                "mode",
		"http.timeout":        "timeout",
		"workers.parallelism": "parallelism",
		"output.format":       "format",
		"output.all":          "all",
		"output.file":         "file",
		"output.metrics_file": "metrics-file",
		"logger.level":        "log-level",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// LoadConfig reads fname (if not empty) and PWS_* environment variables into
// v, then decodes and validates the result.
func LoadConfig(v *viper.Viper, fname string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fname != "" {
		v.SetConfigFile(fname)
		if err := v.ReadInConfig(); err != nil {
			return nil, ec.ErrConfig.Clone().
				WithMessage("failed to read configuration file").
				WithDetails(fmt.Sprintf("file: %s", fname)).
				Warp(err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ec.ErrConfig.Clone().
			WithMessage("failed to decode configuration").
			Warp(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	SetMode(cfg.Mode)
	return cfg, nil
}
