package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	"github.com/ChiaYuChang/pwsscraper/internal/report"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/stretchr/testify/require"
)

var result = models.AggregateResult{
	"Deep Cove": {
		Wind:        &models.WindData{Direction: "NNW", Speed: 4.34, Gust: 6.95, Units: "knots"},
		Temperature: &models.TemperatureData{},
		Updated:     &models.UpdatedData{},
		Location:    &models.LocationData{Elevation: 0, Units: "ft", Latitude: 49.38, Longitude: -122.88},
	},
	"Best Point": {},
}

func TestNewPrinter(t *testing.T) {
	tcs := []struct {
		Name   string
		Format string
		Want   report.Format
		Err    *ec.Error
	}{
		{"Default", "", report.FormatText, nil},
		{"Text", "text", report.FormatText, nil},
		{"JSON", "json", report.FormatJSON, nil},
		{"Unknown", "xml", "", ec.ErrBadRequest},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			p, err := report.NewPrinter(&bytes.Buffer{}, tc.Format)
			if tc.Err != nil {
				require.ErrorIs(t, err, tc.Err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.Want, p.Format)
		})
	}
}

func TestPrintWindText(t *testing.T) {
	buf := &bytes.Buffer{}
	p, err := report.NewPrinter(buf, "text")
	require.NoError(t, err)
	require.NoError(t, p.PrintWind(result))

	require.Equal(t, `Best Point
{}
Deep Cove
{
  "direction": "NNW",
  "speed": 4.34,
  "gust": 6.95,
  "units": "knots"
}
`, buf.String())
}

func TestPrintWindJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	p, err := report.NewPrinter(buf, "json")
	require.NoError(t, err)
	require.NoError(t, p.PrintWind(result))

	var got map[string]*models.WindData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Nil(t, got["Best Point"])
	require.Equal(t, result["Deep Cove"].Wind, got["Deep Cove"])
}

func TestPrintAll(t *testing.T) {
	buf := &bytes.Buffer{}
	p, err := report.NewPrinter(buf, "json")
	require.NoError(t, err)
	require.NoError(t, p.PrintAll(result))

	var got models.AggregateResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, result, got)

	buf.Reset()
	p.Format = report.FormatText
	require.NoError(t, p.PrintAll(result))
	require.Contains(t, buf.String(), "Best Point\n{}\nDeep Cove\n{\n  \"wind\": {")
	require.Contains(t, buf.String(), `"latitude": 49.38`)
}

func TestPrintLocation(t *testing.T) {
	buf := &bytes.Buffer{}
	p, err := report.NewPrinter(buf, "")
	require.NoError(t, err)

	require.NoError(t, p.PrintLocation(result["Deep Cove"].Location))
	require.Equal(t, `{
  "elevation": 0,
  "units": "ft",
  "latitude": 49.38,
  "longitude": -122.88
}
`, buf.String())

	buf.Reset()
	require.NoError(t, p.PrintLocation(nil))
	require.Equal(t, "{}\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrintWriteError(t *testing.T) {
	p, err := report.NewPrinter(failingWriter{}, "text")
	require.NoError(t, err)
	require.ErrorIs(t, p.PrintWind(result), ec.ErrIO)
}

func TestSchema(t *testing.T) {
	data, err := report.Schema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	require.Equal(t, "object", schema["type"])

	props, ok := schema["additionalProperties"].(map[string]any)
	require.True(t, ok, "station records should be described by additionalProperties")
	fields, ok := props["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, fields, "wind")
	require.Contains(t, fields, "location")
}
