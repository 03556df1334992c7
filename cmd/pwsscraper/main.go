package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ChiaYuChang/pwsscraper/internal/global"
	"github.com/ChiaYuChang/pwsscraper/internal/metrics"
	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/internal/report"
	"github.com/ChiaYuChang/pwsscraper/internal/scrapers"
	"github.com/ChiaYuChang/pwsscraper/internal/workers"
	"github.com/ChiaYuChang/pwsscraper/internal/workers/publishers"
	"github.com/ChiaYuChang/pwsscraper/pkgs/utils"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	os.Exit(run())
}

func run() int {
	global.Logger = global.InitBaseLogger()
	defer global.CleanUp()

	v := viper.New()
	fs := flag.NewFlagSet("pwsscraper", flag.ExitOnError)
	configPath := fs.StringP("config", "c", "", "Path to the configuration file")
	schema := fs.Bool("schema", false, "Print the JSON schema of the json output and exit")
	if err := global.RegisterFlags(fs, v); err != nil {
		global.Logger.Error().Err(err).Msg("Failed to register flags")
		return 2
	}
	_ = fs.Parse(os.Args[1:])

	if *schema {
		data, err := report.Schema()
		if err != nil {
			global.Logger.Error().Err(err).Msg("Failed to build schema")
			return 1
		}
		_, _ = os.Stdout.Write(append(data, '\n'))
		return 0
	}

	cfg, err := global.LoadConfig(v, *configPath)
	if err != nil {
		global.Logger.Error().Err(err).Msg("Failed to load config")
		return 2
	}

	var nc *nats.Conn
	if cfg.Logger.NatsURL != "" {
		nc, err = global.ConnectNats(cfg.Logger.NatsURL)
		if err != nil {
			global.Logger.Warn().
				Err(err).
				Str("url", utils.Mask(cfg.Logger.NatsURL)).
				Msg("NATS unavailable, logging to console only")
			nc = nil
		} else {
			defer func() { _ = nc.Drain() }()
		}
	}
	global.Logger = global.InitLogger(cfg.Logger, nc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Otel.CollectorEndpoint != "" {
		shutdown, err := global.InitTraceProvider(ctx, cfg.Otel)
		if err != nil {
			global.Logger.Warn().Err(err).Msg("Tracing disabled")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					global.Logger.Error().Err(err).Msg("Failed to shut down trace provider")
				}
			}()
		}
	}

	printer, err := report.NewPrinter(os.Stdout, cfg.Output.Format)
	if err != nil {
		global.Logger.Error().Err(err).Msg("Failed to create printer")
		return 2
	}

	if cfg.Output.File != "" {
		return inspect(cfg, printer)
	}
	return scrape(ctx, cfg, nc, printer)
}

// inspect parses a saved dashboard page instead of fetching.
func inspect(cfg *global.Config, printer *report.Printer) int {
	f, err := os.Open(cfg.Output.File)
	if err != nil {
		global.Logger.Error().Err(err).Str("file", cfg.Output.File).Msg("Failed to open page")
		return 1
	}
	defer f.Close()

	result := scrapers.ParseStationBody(f)
	if !result.OK() {
		global.Logger.Error().
			Str("file", cfg.Output.File).
			Str("error", result.Error.ErrorWithDetails()).
			Msg("Failed to parse page")
		return 1
	}
	global.Logger.Debug().
		Dur("parse_time", result.ParseTime).
		Strs("categories", result.Record.Categories()).
		Msg("page parsed")

	if cfg.Output.All {
		err = printer.PrintAll(models.AggregateResult{cfg.Output.File: result.Record})
	} else {
		err = printer.PrintLocation(result.Record.Location)
	}
	if err != nil {
		global.Logger.Error().Err(err).Msg("Failed to print result")
		return 1
	}
	return 0
}

func scrape(ctx context.Context, cfg *global.Config, nc *nats.Conn, printer *report.Printer) int {
	m := metrics.New()
	opts := []workers.Option{
		workers.WithParallelism(cfg.Workers.Parallelism),
		workers.WithTimeout(cfg.HTTP.Timeout),
		workers.WithRunID(uuid.New()),
		workers.WithMetrics(m),
	}
	if nc != nil && cfg.Output.NatsSubject != "" {
		opts = append(opts, workers.WithSink(publishers.NewPublisher(nc, cfg.Output.NatsSubject)))
	}

	scraper := scrapers.NewScraper(
		scrapers.NewHTTPClient(cfg.HTTP.Timeout),
		scrapers.Headers(cfg.HTTP.UserAgent),
	)
	pool, err := workers.NewPool(scraper, global.Logger, opts...)
	if err != nil {
		global.Logger.Error().Err(err).Msg("Failed to create worker pool")
		return 2
	}

	result := pool.Run(ctx, cfg.Stations)

	if cfg.Output.All {
		err = printer.PrintAll(result)
	} else {
		err = printer.PrintWind(result)
	}
	if err != nil {
		global.Logger.Error().Err(err).Msg("Failed to print result")
		return 1
	}

	if cfg.Output.MetricsFile != "" {
		if err := m.WriteToTextfile(cfg.Output.MetricsFile); err != nil {
			global.Logger.Error().
				Err(err).
				Str("file", cfg.Output.MetricsFile).
				Msg("Failed to write metrics")
			return 1
		}
	}
	return 0
}
