package testtools_test

import (
	"strings"
	"testing"

	"github.com/ChiaYuChang/pwsscraper/internal/global"
	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/internal/testtools"
	"github.com/stretchr/testify/require"
)

func TestRandomStations(t *testing.T) {
	stations := testtools.Random{}.Stations(50, "https://example.com")
	require.Len(t, stations, 50)

	seen := map[string]struct{}{}
	for _, s := range stations {
		require.NoError(t, global.Validator().Struct(s))
		_, dup := seen[s.Name]
		require.False(t, dup, "duplicate station name %s", s.Name)
		seen[s.Name] = struct{}{}
	}
}

func TestRandomWind(t *testing.T) {
	for range 100 {
		w := testtools.Random{}.Wind("mph")
		require.Equal(t, "mph", w.Units)
		require.Contains(t, testtools.Compass, w.Direction)
		require.GreaterOrEqual(t, w.Gust, w.Speed)
		require.GreaterOrEqual(t, w.Speed, 0.0)
	}
}

func TestLocationText(t *testing.T) {
	text := testtools.LocationText(models.LocationData{
		Elevation: -107507, Units: "ft", Latitude: 49.38, Longitude: 122.88,
	})
	require.Equal(t, "Elev&nbsp; -107507 ft, 49.38 °N, 122.88 °W", text)
}

func TestDashboardHTML(t *testing.T) {
	r := testtools.Random{}
	html := r.DashboardHTML(r.Wind("knots"), r.Location())
	for _, class := range []string{
		"dashboard__header", "sub-heading", "wind-dial__container",
		"weather__data weather__wind-gust", "wu-value wu-value-to",
	} {
		require.True(t, strings.Contains(html, class), "missing %s", class)
	}
}
