package scrapers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ChiaYuChang/pwsscraper/internal/global"
	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/ChiaYuChang/pwsscraper/pkgs/utils"
	"github.com/PuerkitoBio/goquery"
)

// selectors for extracting station fields from a PWS dashboard page.
const (
	DashboardHeaderSelector = ".dashboard__header"
	SubHeadingSelector      = ".sub-heading"
	WindDialSelector        = ".wind-dial__container"
	WindGustSelector        = ".weather__data.weather__wind-gust"
	WindSpeedSelector       = ".wu-value.wu-value-to"
	GustUnitsSelector       = ".test-false.wu-unit.wu-unit-speed.ng-star-inserted"
	UnitsSelector           = ".ng-star-inserted"
	SpanSelector            = "span"
)

const (
	// MphToKnots converts miles per hour to knots.
	MphToKnots = 0.868976
	UnitMph    = "mph"
	UnitKnots  = "knots"
)

func errElementNotFound(selector string) *errors.Error {
	return errors.ErrParse.Clone().
		WithMessage("element not found").
		WithDetails(fmt.Sprintf("selector: %s", selector))
}

func parseFloat(field, raw string) (float64, *errors.Error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.ErrParse.Clone().
			WithMessage("malformed numeric token").
			WithDetails(fmt.Sprintf("field: %s", field), fmt.Sprintf("token: %q", raw)).
			Warp(err)
	}
	// strconv accepts NaN and Inf, which cannot be encoded as JSON.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.ErrParse.Clone().
			WithMessage("malformed numeric token").
			WithDetails(fmt.Sprintf("field: %s", field), fmt.Sprintf("token: %q", raw))
	}
	return f, nil
}

// FindLocation reads the dashboard sub-heading, which looks like
//
//	Elev  -107507 ft, 49.38 °N, 122.88 °W
//
// Latitude is assumed North and longitude West.
func FindLocation(doc *goquery.Document) (*models.LocationData, error) {
	header := doc.Find(DashboardHeaderSelector).First()
	if header.Length() == 0 {
		return nil, errElementNotFound(DashboardHeaderSelector)
	}

	content := header.Find(SubHeadingSelector).First()
	if content.Length() == 0 {
		return nil, errElementNotFound(DashboardHeaderSelector + " " + SubHeadingSelector)
	}

	span := content.Find(SpanSelector).First()
	if span.Length() == 0 {
		return nil, errElementNotFound(SubHeadingSelector + " " + SpanSelector)
	}
	return ParseLocation(span.Text())
}

// ParseLocation parses the "elevation, latitude, longitude" text of the
// dashboard sub-heading. Negative elevations are clamped to 0.
func ParseLocation(text string) (*models.LocationData, error) {
	text = utils.NormalizeString(text)
	items := strings.Split(text, ",")
	if len(items) < 3 {
		return nil, errors.ErrParse.Clone().
			WithMessage("unexpected location format").
			WithDetails(
				fmt.Sprintf("text: %q", text),
				fmt.Sprintf("segments: %d", len(items)))
	}

	// Elev -107507 ft
	elevation := strings.Fields(items[0])
	if len(elevation) < 3 {
		return nil, errors.ErrParse.Clone().
			WithMessage("unexpected elevation format").
			WithDetails(fmt.Sprintf("text: %q", items[0]))
	}

	loc := &models.LocationData{Units: elevation[2]}
	elev, err := parseFloat("elevation", elevation[1])
	if err != nil {
		return nil, err
	}
	if elev < 0 {
		global.Logger.Debug().
			Float64("elevation", elev).
			Msg("negative elevation clamped to 0")
	}
	loc.Elevation = utils.ClampMin(elev, 0)

	lat := strings.Fields(items[1])
	if len(lat) == 0 {
		return nil, errors.ErrParse.Clone().
			WithMessage("missing latitude").
			WithDetails(fmt.Sprintf("text: %q", text))
	}
	if loc.Latitude, err = parseFloat("latitude", lat[0]); err != nil {
		return nil, err
	}

	lon := strings.Fields(items[2])
	if len(lon) == 0 {
		return nil, errors.ErrParse.Clone().
			WithMessage("missing longitude").
			WithDetails(fmt.Sprintf("text: %q", text))
	}
	if loc.Longitude, err = parseFloat("longitude", lon[0]); err != nil {
		return nil, err
	}
	loc.Longitude *= -1
	return loc, nil
}

// FindWind reads the compass direction and the wind/gust block and
// normalizes the speeds to knots.
func FindWind(doc *goquery.Document) (*models.WindData, error) {
	dial := doc.Find(WindDialSelector).First()
	if dial.Length() == 0 {
		return nil, errElementNotFound(WindDialSelector)
	}
	direction := dial.Find(SpanSelector).First()
	if direction.Length() == 0 {
		return nil, errElementNotFound(WindDialSelector + " " + SpanSelector)
	}

	block := doc.Find(WindGustSelector).First()
	if block.Length() == 0 {
		return nil, errElementNotFound(WindGustSelector)
	}
	speed := block.Find(WindSpeedSelector).First()
	if speed.Length() == 0 {
		return nil, errElementNotFound(WindGustSelector + " " + WindSpeedSelector)
	}
	gustAndUnits := block.Find(GustUnitsSelector).First()
	if gustAndUnits.Length() == 0 {
		return nil, errElementNotFound(WindGustSelector + " " + GustUnitsSelector)
	}
	gust := gustAndUnits.Find(SpanSelector).First()
	if gust.Length() == 0 {
		return nil, errElementNotFound(GustUnitsSelector + " " + SpanSelector)
	}
	units := gustAndUnits.Find(UnitsSelector).First()
	if units.Length() == 0 {
		return nil, errElementNotFound(GustUnitsSelector + " " + UnitsSelector)
	}

	wind := models.WindData{
		Direction: utils.NormalizeString(direction.Text()),
		Units:     utils.NormalizeString(units.Text()),
	}

	var err *errors.Error
	if wind.Speed, err = parseFloat("speed", utils.NormalizeString(speed.Text())); err != nil {
		return nil, err
	}
	if wind.Gust, err = parseFloat("gust", utils.NormalizeString(gust.Text())); err != nil {
		return nil, err
	}

	global.Logger.Debug().
		Str("direction", wind.Direction).
		Float64("speed", wind.Speed).
		Float64("gust", wind.Gust).
		Str("units", wind.Units).
		Msg("wind block found")

	wind = ConvertWind(wind)
	return &wind, nil
}

// ConvertWind converts speed and gust from mph to knots, rounded to two
// decimals. Any other unit passes through unchanged.
func ConvertWind(w models.WindData) models.WindData {
	if !strings.EqualFold(w.Units, UnitMph) {
		return w
	}
	w.Speed = utils.Round(w.Speed*MphToKnots, 2)
	w.Gust = utils.Round(w.Gust*MphToKnots, 2)
	w.Units = UnitKnots
	return w
}

// FindUpdated is a placeholder for the last-updated time of the station.
func FindUpdated(doc *goquery.Document) (*models.UpdatedData, error) {
	return &models.UpdatedData{}, nil
}

// FindTemperature is a placeholder for the temperature block.
func FindTemperature(doc *goquery.Document) (*models.TemperatureData, error) {
	return &models.TemperatureData{}, nil
}
