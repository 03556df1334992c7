package workers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/ChiaYuChang/pwsscraper/internal/metrics"
	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/internal/scrapers"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const SpanRun = "pws.run"

// Pool runs one fetch per station over a bounded set of goroutines.
type Pool struct {
	fetcher Fetcher
	logger  zerolog.Logger
	tracer  trace.Tracer
	options Options
}

// NewPool creates a Pool. Without WithRunID a random run id is assigned.
func NewPool(fetcher Fetcher, logger zerolog.Logger, opts ...Option) (*Pool, error) {
	p := &Pool{
		fetcher: fetcher,
		tracer:  otel.Tracer(scrapers.TracerName),
		options: Options{
			Parallelism: DefaultParallelism,
			Timeout:     DefaultTimeout,
		},
	}

	for _, opt := range opts {
		if err := opt(&p.options); err != nil {
			return nil, err
		}
	}
	if p.options.RunID == uuid.Nil {
		p.options.RunID = uuid.New()
	}
	p.logger = logger.With().Str("run_id", p.options.RunID.String()).Logger()
	return p, nil
}

func (p *Pool) RunID() uuid.UUID {
	return p.options.RunID
}

// Options returns a copy of the options the pool runs with.
func (p *Pool) Options() Options {
	return p.options
}

// Run fetches every station and returns one record per station name. A
// station whose fetch failed, timed out or panicked maps to the empty record.
// Run returns only after every fetch has finished.
func (p *Pool) Run(ctx context.Context, stations []models.Station) models.AggregateResult {
	ctx, span := p.tracer.Start(ctx, SpanRun, trace.WithAttributes(
		attribute.String("pws.run_id", p.options.RunID.String()),
		attribute.Int("pws.stations", len(stations)),
	))
	defer span.End()

	aggregate := make(models.AggregateResult, len(stations))
	if len(stations) == 0 {
		return aggregate
	}

	start := time.Now()
	n := min(p.options.Parallelism, len(stations))
	p.logger.Info().
		Int("stations", len(stations)).
		Int("parallelism", n).
		Dur("timeout", p.options.Timeout).
		Msg("run started")

	jobs := make(chan models.Station)
	results := make(chan *scrapers.StationResult)

	wg := sync.WaitGroup{}
	for i := range n {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for s := range jobs {
				results <- p.process(ctx, worker, s)
			}
		}(i)
	}

	go func() {
		for _, s := range stations {
			jobs <- s
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	empty := 0
	for r := range results {
		if !p.merge(ctx, aggregate, r) {
			empty++
		}
	}

	if p.options.Metrics != nil {
		p.options.Metrics.ObserveRun(empty, time.Now())
	}
	span.SetAttributes(attribute.Int("pws.empty", empty))
	p.logger.Info().
		Int("stations", len(aggregate)).
		Int("empty", empty).
		Dur("elapsed", time.Since(start)).
		Msg("run finished")
	return aggregate
}

// process runs one fetch under the per-station timeout. A panicking fetch is
// turned into an ErrTaskPanic result.
func (p *Pool) process(ctx context.Context, worker int, station models.Station) (result *scrapers.StationResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Int("worker", worker).
				Str("station", station.Name).
				Str("stack", string(debug.Stack())).
				Msg("fetch panicked")
			result = &scrapers.StationResult{
				Error: ec.ErrTaskPanic.Clone().
					WithDetails(fmt.Sprintf("panic: %v", r)),
			}
		}
		if result == nil {
			result = &scrapers.StationResult{
				Error: ec.ErrTaskPanic.Clone().
					WithMessage("fetcher returned no result"),
			}
		}
		result.Name = station.Name
		result.URL = station.URL
		if !result.OK() {
			result.Record = models.StationRecord{}
		}

		elapsed := time.Since(start)
		if p.options.Metrics != nil {
			p.options.Metrics.ObserveFetch(station.Name, Outcome(result.Error), elapsed)
		}
		p.logger.Debug().
			Int("worker", worker).
			Str("station", station.Name).
			Bool("success", result.OK()).
			Dur("elapsed", elapsed).
			Msg("fetch done")
	}()

	tCtx, cancel := context.WithTimeout(ctx, p.options.Timeout)
	defer cancel()
	return p.fetcher.ParsePage(tCtx, station)
}

// merge stores r in aggregate and reports whether it carried data.
func (p *Pool) merge(ctx context.Context, aggregate models.AggregateResult, r *scrapers.StationResult) bool {
	if _, ok := aggregate[r.Name]; ok {
		p.logger.Warn().
			Str("station", r.Name).
			Msg("duplicate station name, previous record overwritten")
	}

	if r.OK() {
		aggregate[r.Name] = r.Record
	} else {
		p.logger.Warn().
			Str("station", r.Name).
			Str("url", r.URL).
			Int("status_code", r.StatusCode).
			Strs("details", r.Error.Details).
			Err(r.Error).
			Msg("station fetch failed, using empty record")
		aggregate[r.Name] = models.StationRecord{}
	}

	if p.options.Sink != nil {
		msg := NewRecordMessage(p.options.RunID, r, time.Now())
		if err := p.options.Sink.Publish(ctx, msg); err != nil {
			p.logger.Error().
				Err(err).
				Str("station", r.Name).
				Msg("failed to publish station record")
		}
	}
	return r.OK() && !r.Record.IsEmpty()
}

// Outcome maps a fetch error to its metrics label.
func Outcome(err *ec.Error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	switch err.InternalStatusCode {
	case ec.ECNetworkError:
		return metrics.OutcomeNetwork
	case ec.ECHTTPStatusError:
		return metrics.OutcomeHTTPStatus
	case ec.ECWebpageParsingError:
		return metrics.OutcomeParse
	case ec.ECTaskPanic:
		return metrics.OutcomePanic
	default:
		return metrics.OutcomeOther
	}
}
