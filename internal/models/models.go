// Package models holds the records extracted from PWS dashboard pages.
package models

import (
	"encoding/json"
	"sort"
)

// Category labels of a StationRecord.
const (
	CategoryWind        = "wind"
	CategoryTemperature = "temperature"
	CategoryUpdated     = "updated"
	CategoryLocation    = "location"
)

// Station is a named personal weather station and its dashboard page.
type Station struct {
	Name string `json:"name" mapstructure:"name" validate:"required"`
	URL  string `json:"url"  mapstructure:"url"  validate:"required,http_url"`
}

// LocationData is parsed from the dashboard sub-heading. Latitude is assumed
// North and Longitude West, so Longitude is stored negated.
type LocationData struct {
	Elevation float64 `json:"elevation" jsonschema:"minimum=0"`
	Units     string  `json:"units"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WindData is normalized to knots when the page reports mph.
type WindData struct {
	Direction string  `json:"direction"`
	Speed     float64 `json:"speed"`
	Gust      float64 `json:"gust"`
	Units     string  `json:"units"`
}

// TemperatureData is reserved; the extractor does not fill it yet.
type TemperatureData struct{}

// UpdatedData is reserved; the extractor does not fill it yet.
type UpdatedData struct{}

// StationRecord groups the sub-records of one station. A record whose
// sub-records are all nil is the empty record, returned for any failed fetch.
type StationRecord struct {
	Wind        *WindData        `json:"wind,omitempty"`
	Temperature *TemperatureData `json:"temperature,omitempty"`
	Updated     *UpdatedData     `json:"updated,omitempty"`
	Location    *LocationData    `json:"location,omitempty"`
}

func (r StationRecord) IsEmpty() bool {
	return r.Wind == nil && r.Temperature == nil &&
		r.Updated == nil && r.Location == nil
}

// Categories lists the labels present in the record.
func (r StationRecord) Categories() []string {
	cats := make([]string, 0, 4)
	if r.Wind != nil {
		cats = append(cats, CategoryWind)
	}
	if r.Temperature != nil {
		cats = append(cats, CategoryTemperature)
	}
	if r.Updated != nil {
		cats = append(cats, CategoryUpdated)
	}
	if r.Location != nil {
		cats = append(cats, CategoryLocation)
	}
	return cats
}

// AggregateResult maps station name to its record.
type AggregateResult map[string]StationRecord

// Names returns the station names in lexical order.
func (a AggregateResult) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Wind returns the wind sub-record of every station, keyed by name.
func (a AggregateResult) Wind() map[string]*WindData {
	wind := make(map[string]*WindData, len(a))
	for name, rec := range a {
		wind[name] = rec.Wind
	}
	return wind
}

// MarshalIndent encodes the mapping as indented JSON with keys in lexical order.
func (a AggregateResult) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}
