// Package workers fans station fetches out over a bounded pool of goroutines
// and merges the results.
package workers

import (
	"context"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/internal/scrapers"
)

// Fetcher fetches and parses a single station page. It must always return a
// non-nil result; failures are reported through StationResult.Error.
type Fetcher interface {
	ParsePage(ctx context.Context, station models.Station) *scrapers.StationResult
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, station models.Station) *scrapers.StationResult

func (f FetcherFunc) ParsePage(ctx context.Context, station models.Station) *scrapers.StationResult {
	return f(ctx, station)
}

// Sink receives one message per station once its fetch has finished.
type Sink interface {
	Publish(ctx context.Context, msg RecordMessage) error
}
