// Package cfggen builds a starter configuration file from defaults and
// PWS_* variables (e.g. read from a .env file).
package cfggen

import (
	"fmt"
	"io"
	"strings"

	"github.com/ChiaYuChang/pwsscraper/internal/global"
	"github.com/ChiaYuChang/pwsscraper/internal/models"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/spf13/viper"
)

type CfgGen struct {
	dst *viper.Viper // Destination viper instance for building the output config
	src *viper.Viper // Source viper instance for reading environment variables (e.g., .env)
}

// NewCfgGen creates a new CfgGen instance, taking a source viper instance
// that has already loaded the environment variables (e.g., from .env).
func NewCfgGen(src *viper.Viper) *CfgGen {
	return &CfgGen{
		dst: viper.New(),
		src: src,
	}
}

// WriteTo writes the generated config in format t (yaml, json, toml ...).
func (c *CfgGen) WriteTo(w io.Writer, t string) error {
	c.dst.SetConfigType(t)
	if err := c.dst.WriteConfigTo(w); err != nil {
		return ec.ErrIO.Clone().
			WithMessage("error writing config").
			Warp(err)
	}
	return nil
}

// set copies env from src into key when present, keeping def otherwise.
func (c *CfgGen) set(key, env string, def any) {
	c.dst.SetDefault(key, def)
	if c.src != nil && c.src.IsSet(env) {
		c.dst.Set(key, c.src.Get(env))
	}
}

// ParseStations parses "Name=URL" pairs separated by ";".
func ParseStations(s string) ([]models.Station, error) {
	var stations []models.Station
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, url, ok := strings.Cut(pair, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, ec.ErrConfig.Clone().
				WithMessage("station must be given as Name=URL").
				WithDetails(fmt.Sprintf("station: %q", pair))
		}
		stations = append(stations, models.Station{Name: name, URL: url})
	}
	return stations, nil
}

func (c *CfgGen) AddModeConfig() {
	c.set("mode", "PWS_MODE", global.ModeDev)
}

// AddStationsConfig writes PWS_STATIONS if set, else the default table.
func (c *CfgGen) AddStationsConfig() error {
	stations := global.DefaultStations
	if c.src != nil && c.src.IsSet("PWS_STATIONS") {
		parsed, err := ParseStations(c.src.GetString("PWS_STATIONS"))
		if err != nil {
			return err
		}
		stations = parsed
	}

	table := make([]map[string]any, len(stations))
	for i, s := range stations {
		table[i] = map[string]any{"name": s.Name, "url": s.URL}
	}
	c.dst.Set("stations", table)
	return nil
}

func (c *CfgGen) AddHTTPConfig() {
	c.set("http.timeout", "PWS_HTTP_TIMEOUT", "5s")
	c.set("http.user_agent", "PWS_HTTP_USER_AGENT", "")
}

func (c *CfgGen) AddWorkerConfig() {
	c.set("workers.parallelism", "PWS_WORKERS_PARALLELISM", global.DefaultParallelism)
}

func (c *CfgGen) AddLoggerConfig() {
	c.set("logger.level", "PWS_LOGGER_LEVEL", "info")
	c.set("logger.console", "PWS_LOGGER_CONSOLE", true)
	c.set("logger.nats_url", "PWS_LOGGER_NATS_URL", "")
	c.set("logger.nats_subject", "PWS_LOGGER_NATS_SUBJECT", global.NATSLogSubject)
}

func (c *CfgGen) AddOtelConfig() {
	c.set("otel.service_name", "PWS_OTEL_SERVICE_NAME", "pwsscraper")
	c.set("otel.collector_endpoint", "PWS_OTEL_COLLECTOR_ENDPOINT", "")
	c.set("otel.insecure", "PWS_OTEL_INSECURE", true)
}

func (c *CfgGen) AddOutputConfig() {
	c.set("output.format", "PWS_OUTPUT_FORMAT", global.FormatText)
	c.set("output.all", "PWS_OUTPUT_ALL", false)
	c.set("output.metrics_file", "PWS_OUTPUT_METRICS_FILE", "")
	c.set("output.nats_subject", "PWS_OUTPUT_NATS_SUBJECT", "")
}

// AddAll adds every section.
func (c *CfgGen) AddAll() error {
	c.AddModeConfig()
	if err := c.AddStationsConfig(); err != nil {
		return err
	}
	c.AddHTTPConfig()
	c.AddWorkerConfig()
	c.AddLoggerConfig()
	c.AddOtelConfig()
	c.AddOutputConfig()
	return nil
}
