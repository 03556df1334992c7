package scrapers

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ChiaYuChang/pwsscraper/internal/global"
	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html/charset"
)

const (
	SpanFetch = "pws.station.fetch"
	SpanParse = "pws.station.parse"
)

// StationResult holds the outcome of scraping one station. Record is the
// empty record whenever Error is set.
type StationResult struct {
	Name       string               // Station name
	URL        string               // Dashboard URL
	StatusCode int                  // HTTP status, 0 if no response was received
	ParseTime  time.Duration        // Time taken to parse the page
	Record     models.StationRecord // The extracted sub-records
	Error      *errors.Error        // Any error encountered while fetching or parsing
}

func (r *StationResult) OK() bool {
	return r.Error == nil
}

// Scraper fetches and parses station dashboard pages.
type Scraper struct {
	client  *http.Client
	headers map[string]string
	tracer  trace.Tracer
}

// NewHTTPClient returns a client with the given timeout whose requests are
// traced by the global OpenTelemetry provider.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewScraper creates a Scraper. A nil client falls back to NewHTTPClient
// with DefaultTimeout and nil headers to DefaultHeaders.
func NewScraper(client *http.Client, headers map[string]string) *Scraper {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	if headers == nil {
		headers = DefaultHeaders
	}
	return &Scraper{
		client:  client,
		headers: headers,
		tracer:  otel.Tracer(TracerName),
	}
}

// ParsePage performs one GET against the station URL and parses the page.
// It never returns nil; failures are reported through StationResult.Error.
func (s *Scraper) ParsePage(ctx context.Context, station models.Station) *StationResult {
	ctx, span := s.tracer.Start(ctx, SpanFetch, trace.WithAttributes(
		attribute.String("pws.station", station.Name),
		attribute.String("pws.url", station.URL),
	))
	defer span.End()

	result := func() *StationResult {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, station.URL, nil)
		if err != nil {
			return &StationResult{Error: errors.ErrBadRequest.Clone().
				WithMessage("failed to create request").
				WithDetails(fmt.Sprintf("url: %s", station.URL)).
				Warp(err)}
		}
		for k, v := range s.headers {
			req.Header.Set(k, v)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return &StationResult{Error: errors.ErrNetwork.Clone().
				WithDetails(fmt.Sprintf("url: %s", station.URL)).
				Warp(err)}
		}
		defer resp.Body.Close()

		global.Logger.Debug().
			Str("station", station.Name).
			Int("status_code", resp.StatusCode).
			Msg("response received")

		_, pSpan := s.tracer.Start(ctx, SpanParse)
		defer pSpan.End()
		result := ParseStationResp(resp)
		if result.Error != nil {
			pSpan.RecordError(result.Error)
		}
		return result
	}()

	result.Name = station.Name
	result.URL = station.URL
	span.SetAttributes(
		attribute.Int("http.status_code", result.StatusCode),
		attribute.Bool("success", result.OK()))
	if result.Error != nil {
		span.RecordError(result.Error)
	}
	return result
}

// ParseStationResp checks the status code and decodes the body before
// handing it to ParseStationBody. Any status but 200 yields the empty record
// without running the extractors.
func ParseStationResp(resp *http.Response) *StationResult {
	if resp.StatusCode != http.StatusOK {
		err := errors.ErrHTTPStatus.Clone().
			WithMessage(fmt.Sprintf("status: %s, failed to fetch station dashboard", resp.Status))
		if resp.Request != nil {
			err = err.WithDetails(fmt.Sprintf("url: %s", resp.Request.URL.String()))
		}
		return &StationResult{StatusCode: resp.StatusCode, Error: err}
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return &StationResult{
				StatusCode: resp.StatusCode,
				Error: errors.ErrParse.Clone().
					WithMessage("failed to create gzip reader").
					Warp(err),
			}
		}
		defer gz.Close()
		reader = gz
	}

	body, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		return &StationResult{
			StatusCode: resp.StatusCode,
			Error: errors.ErrParse.Clone().
				WithMessage("failed to decode charset").
				WithDetails(fmt.Sprintf("content-type: %s", resp.Header.Get("Content-Type"))).
				Warp(err),
		}
	}

	result := ParseStationBody(body)
	result.StatusCode = resp.StatusCode
	return result
}

// ParseStationBody parses a dashboard page and merges the outputs of the
// wind, temperature, location and updated extractors into one record.
func ParseStationBody(r io.Reader) *StationResult {
	tStr := time.Now()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return &StationResult{
			ParseTime: time.Since(tStr),
			Error: errors.ErrParse.Clone().
				WithMessage("failed to construct goquery tree from HTML").
				Warp(err),
		}
	}

	record, err := ParseStationDocument(doc)
	if err != nil {
		var e *errors.Error
		if !errors.As(err, &e) {
			e = errors.ErrParse.Clone().Warp(err)
		}
		return &StationResult{ParseTime: time.Since(tStr), Error: e}
	}
	return &StationResult{ParseTime: time.Since(tStr), Record: record}
}

// ParseStationDocument runs every extractor against doc.
func ParseStationDocument(doc *goquery.Document) (models.StationRecord, error) {
	var rec models.StationRecord
	var err error

	if rec.Wind, err = FindWind(doc); err != nil {
		return models.StationRecord{}, err
	}
	if rec.Temperature, err = FindTemperature(doc); err != nil {
		return models.StationRecord{}, err
	}
	if rec.Location, err = FindLocation(doc); err != nil {
		return models.StationRecord{}, err
	}
	if rec.Updated, err = FindUpdated(doc); err != nil {
		return models.StationRecord{}, err
	}
	return rec, nil
}
