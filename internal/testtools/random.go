// Package testtools generates random stations and dashboard pages for tests.
package testtools

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/pkgs/utils"
)

type Random struct{}

var Compass = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

var SpeedUnits = []string{"mph", "MPH", "knots", "km/h", "m/s"}

var ElevationUnits = []string{"ft", "m"}

// Stations returns n stations with distinct names under baseURL.
func (r Random) Stations(n int, baseURL string) []models.Station {
	ss := make([]models.Station, n)
	for i := range ss {
		ss[i] = models.Station{
			Name: fmt.Sprintf("Station %03d", i),
			URL:  fmt.Sprintf("%s/dashboard/pws/I%06d", baseURL, rand.IntN(1_000_000)),
		}
	}
	return ss
}

// Wind returns raw wind data as a dashboard would show it, with two decimals.
func (r Random) Wind(units string) models.WindData {
	speed := utils.Round(rand.Float64()*60, 2)
	return models.WindData{
		Direction: Compass[rand.IntN(len(Compass))],
		Speed:     speed,
		Gust:      utils.Round(speed+rand.Float64()*20, 2),
		Units:     units,
	}
}

// Location returns a raw location; about a third of them have a negative
// elevation.
func (r Random) Location() models.LocationData {
	return models.LocationData{
		Elevation: float64(rand.IntN(300_000) - 100_000),
		Units:     ElevationUnits[rand.IntN(len(ElevationUnits))],
		Latitude:  utils.Round(rand.Float64()*90, 2),
		Longitude: utils.Round(rand.Float64()*180, 2),
	}
}

func format(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// LocationText renders loc the way the dashboard sub-heading does.
func LocationText(loc models.LocationData) string {
	return fmt.Sprintf("Elev&nbsp; %s %s, %s °N, %s °W",
		format(loc.Elevation), loc.Units, format(loc.Latitude), format(loc.Longitude))
}

// DashboardHTML renders a minimal dashboard page carrying w and loc.
func (r Random) DashboardHTML(w models.WindData, loc models.LocationData) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Station Dashboard</title></head>
<body>
  <div class="dashboard__header">
    <h1>Random Station</h1>
    <div class="sub-heading">
      <span class="ng-star-inserted">%s</span>
      <span>Updated 1 minute ago</span>
    </div>
  </div>
  <div class="wind-dial__container"><div><span class="text-bold">%s</span></div></div>
  <div class="weather__data weather__wind-gust">
    <span class="wu-value wu-value-to">%s</span> /
    <span class="test-false wu-unit wu-unit-speed ng-star-inserted"><span>%s</span> <span class="ng-star-inserted">%s</span></span>
  </div>
</body>
</html>
`, LocationText(loc), w.Direction, format(w.Speed), format(w.Gust), w.Units)
}
