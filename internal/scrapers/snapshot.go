package scrapers

import (
	"fmt"
	"strings"
	"time"

	"github.com/ChiaYuChang/pwsscraper/internal/global"
	"github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/gocolly/colly/v2"
)

// DefaultSnapshotPath is where SaveSnapshot writes when no path is given.
const DefaultSnapshotPath = "index.html"

// SaveSnapshot downloads a dashboard page and writes the raw body to path so
// the extractors can be developed against it without hitting the site.
func SaveSnapshot(link, path string, timeout time.Duration, headers map[string]string) error {
	if path == "" {
		path = DefaultSnapshotPath
	}

	collector := colly.NewCollector(
		colly.UserAgent(headers["User-Agent"]),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(timeout)

	var snapErr *errors.Error
	collector.OnRequest(func(r *colly.Request) {
		for key, value := range headers {
			// colly decompresses bodies itself
			if strings.EqualFold(key, "Accept-Encoding") {
				continue
			}
			r.Headers.Set(key, value)
		}
		global.Logger.Info().
			Str("URL", r.URL.String()).
			Msg("Requesting URL")
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r.StatusCode != 0 {
			snapErr = errors.ErrHTTPStatus.Clone().
				WithMessage(fmt.Sprintf("status: %d, failed to fetch station dashboard", r.StatusCode)).
				WithDetails(fmt.Sprintf("url: %s", link)).
				Warp(err)
		} else {
			snapErr = errors.ErrNetwork.Clone().
				WithDetails(fmt.Sprintf("url: %s", link)).
				Warp(err)
		}
		global.Logger.Error().
			Err(err).
			Int("status_code", r.StatusCode).
			Str("link", link).
			Msg("Request failed")
	})

	collector.OnResponse(func(r *colly.Response) {
		if err := r.Save(path); err != nil {
			snapErr = errors.ErrIO.Clone().
				WithMessage("failed to save snapshot").
				WithDetails(fmt.Sprintf("path: %s", path)).
				Warp(err)
			return
		}
		global.Logger.Info().
			Str("link", link).
			Str("path", path).
			Int("size", len(r.Body)).
			Msg("Snapshot saved")
	})

	if err := collector.Visit(link); err != nil && snapErr == nil {
		return errors.ErrNetwork.Clone().
			WithDetails(fmt.Sprintf("url: %s", link)).
			Warp(err)
	}
	collector.Wait()

	if snapErr != nil {
		return snapErr
	}
	return nil
}
