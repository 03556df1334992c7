package models_test

import (
	"encoding/json"
	"testing"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStationRecordIsEmpty(t *testing.T) {
	tcs := []struct {
		Name       string
		Record     models.StationRecord
		Empty      bool
		Categories []string
	}{
		{
			Name:       "Empty record",
			Record:     models.StationRecord{},
			Empty:      true,
			Categories: []string{},
		},
		{
			Name: "Full record",
			Record: models.StationRecord{
				Wind:        &models.WindData{Direction: "NNW", Speed: 4.34, Gust: 6.95, Units: "knots"},
				Temperature: &models.TemperatureData{},
				Location:    &models.LocationData{Elevation: 0, Units: "ft", Latitude: 49.38, Longitude: -122.88},
			},
			Empty: false,
			Categories: []string{
				models.CategoryWind,
				models.CategoryTemperature,
				models.CategoryLocation,
			},
		},
		{
			Name:       "Stub only",
			Record:     models.StationRecord{Updated: &models.UpdatedData{}},
			Empty:      false,
			Categories: []string{models.CategoryUpdated},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			require.Equal(t, tc.Empty, tc.Record.IsEmpty())
			require.Equal(t, tc.Categories, tc.Record.Categories())
		})
	}
}

func TestEmptyRecordMarshalsToEmptyObject(t *testing.T) {
	data, err := json.Marshal(models.AggregateResult{"Stone Haven": {}})
	require.NoError(t, err)
	require.JSONEq(t, `{"Stone Haven": {}}`, string(data))
}

func TestAggregateResultNames(t *testing.T) {
	result := models.AggregateResult{
		"Stone Haven":       {},
		"Best Point":        {},
		"Little Cates Park": {Wind: &models.WindData{Units: "knots"}},
		"Deep Cove":         {},
	}
	require.Equal(t,
		[]string{"Best Point", "Deep Cove", "Little Cates Park", "Stone Haven"},
		result.Names())

	wind := result.Wind()
	require.Len(t, wind, 4)
	require.Nil(t, wind["Deep Cove"])
	require.Equal(t, "knots", wind["Little Cates Park"].Units)
}
