package scrapers_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/internal/scrapers"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(FixturePath)
	require.NoError(t, err, "Failed to read fixture")
	return data
}

func newDashboardServer(t *testing.T) *httptest.Server {
	t.Helper()
	page := readFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/dashboard/pws/OK", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
	mux.HandleFunc("/dashboard/pws/GZIP", func(w http.ResponseWriter, r *http.Request) {
		buf := bytes.NewBuffer(nil)
		gz := gzip.NewWriter(buf)
		_, _ = gz.Write(page)
		_ = gz.Close()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	})
	mux.HandleFunc("/dashboard/pws/LATIN1", func(w http.ResponseWriter, r *http.Request) {
		// 0xB0 is the degree sign in ISO-8859-1
		latin1 := bytes.ReplaceAll(page, []byte("°"), []byte{0xB0})
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write(latin1)
	})
	mux.HandleFunc("/dashboard/pws/BROKEN", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div class="dashboard__header"></div></body></html>`))
	})
	mux.HandleFunc("/dashboard/pws/SLOW", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	mux.HandleFunc("/dashboard/pws/HEADERS", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "pws-test-agent" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write(page)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestParsePage(t *testing.T) {
	srv := newDashboardServer(t)
	scraper := scrapers.NewScraper(
		scrapers.NewHTTPClient(200*time.Millisecond),
		scrapers.Headers("pws-test-agent"),
	)

	tcs := []struct {
		Name       string
		Path       string
		StatusCode int
		Err        *ec.Error
	}{
		{Name: "OK", Path: "/dashboard/pws/OK", StatusCode: http.StatusOK},
		{Name: "Gzip body", Path: "/dashboard/pws/GZIP", StatusCode: http.StatusOK},
		{Name: "Latin-1 body", Path: "/dashboard/pws/LATIN1", StatusCode: http.StatusOK},
		{Name: "Custom headers", Path: "/dashboard/pws/HEADERS", StatusCode: http.StatusOK},
		{Name: "Not found", Path: "/dashboard/pws/MISSING", StatusCode: http.StatusNotFound, Err: ec.ErrHTTPStatus},
		{Name: "Broken markup", Path: "/dashboard/pws/BROKEN", StatusCode: http.StatusOK, Err: ec.ErrParse},
		{Name: "Timeout", Path: "/dashboard/pws/SLOW", StatusCode: 0, Err: ec.ErrNetwork},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			station := models.Station{Name: tc.Name, URL: srv.URL + tc.Path}
			result := scraper.ParsePage(context.Background(), station)
			require.NotNil(t, result)
			require.Equal(t, tc.Name, result.Name)
			require.Equal(t, station.URL, result.URL)
			require.Equal(t, tc.StatusCode, result.StatusCode)

			if tc.Err != nil {
				require.False(t, result.OK())
				require.ErrorIs(t, result.Error, tc.Err)
				require.True(t, result.Record.IsEmpty(), "failed fetch must yield the empty record")
				return
			}
			require.True(t, result.OK(), "unexpected error: %v", result.Error)
			require.Equal(t,
				&models.WindData{Direction: "NNW", Speed: 4.34, Gust: 6.95, Units: "knots"},
				result.Record.Wind)
			require.Equal(t,
				&models.LocationData{Elevation: 0, Units: "ft", Latitude: 49.38, Longitude: -122.88},
				result.Record.Location)
		})
	}
}

func TestParsePageInvalidURL(t *testing.T) {
	scraper := scrapers.NewScraper(nil, nil)
	result := scraper.ParsePage(context.Background(), models.Station{Name: "Bad", URL: "://nowhere"})
	require.False(t, result.OK())
	require.True(t, result.Record.IsEmpty())
}

func TestParseStationRespSkipsExtractorsOnStatus(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusNoContent, http.StatusMovedPermanently} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			resp := &http.Response{
				StatusCode: code,
				Status:     http.StatusText(code),
				Header:     http.Header{},
				Body:       http.NoBody,
			}
			result := scrapers.ParseStationResp(resp)
			require.ErrorIs(t, result.Error, ec.ErrHTTPStatus)
			require.Equal(t, code, result.StatusCode)
			require.True(t, result.Record.IsEmpty())
		})
	}
}

func TestSaveSnapshot(t *testing.T) {
	srv := newDashboardServer(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "index.html")
	err := scrapers.SaveSnapshot(srv.URL+"/dashboard/pws/OK", path, time.Second, scrapers.DefaultHeaders)
	require.NoError(t, err)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, readFixture(t), saved)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	result := scrapers.ParseStationBody(f)
	require.True(t, result.OK())

	err = scrapers.SaveSnapshot(srv.URL+"/dashboard/pws/MISSING", filepath.Join(dir, "missing.html"), time.Second, scrapers.DefaultHeaders)
	require.ErrorIs(t, err, ec.ErrHTTPStatus)
	require.NoFileExists(t, filepath.Join(dir, "missing.html"))
}
