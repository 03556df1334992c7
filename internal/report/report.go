// Package report prints aggregate results to the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ChiaYuChang/pwsscraper/internal/models"
	ec "github.com/ChiaYuChang/pwsscraper/pkgs/errors"
	"github.com/invopop/jsonschema"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const indent = "  "

// Printer writes results to Out. In text format every station is a name line
// followed by an indented dump of its record; in json format the whole
// mapping is written as a single document.
type Printer struct {
	Out    io.Writer
	Format Format
}

func NewPrinter(w io.Writer, format string) (*Printer, error) {
	f := Format(format)
	if f == "" {
		f = FormatText
	}
	if f != FormatText && f != FormatJSON {
		return nil, ec.ErrBadRequest.Clone().
			WithMessage("unknown output format").
			WithDetails(fmt.Sprintf("format: %s", format))
	}
	return &Printer{Out: w, Format: f}, nil
}

// PrintWind prints the wind sub-record of every station. Stations without
// wind data print as {} in text and null in json.
func (p *Printer) PrintWind(result models.AggregateResult) error {
	if p.Format == FormatJSON {
		return p.writeJSON(result.Wind())
	}

	wind := result.Wind()
	for _, name := range result.Names() {
		var v any = struct{}{}
		if w := wind[name]; w != nil {
			v = w
		}
		if err := p.writeBlock(name, v); err != nil {
			return err
		}
	}
	return nil
}

// PrintAll prints every sub-record of every station.
func (p *Printer) PrintAll(result models.AggregateResult) error {
	if p.Format == FormatJSON {
		data, err := result.MarshalIndent()
		if err != nil {
			return ec.ErrMarshalFailed.Clone().Warp(err)
		}
		return p.write(data)
	}

	for _, name := range result.Names() {
		if err := p.writeBlock(name, result[name]); err != nil {
			return err
		}
	}
	return nil
}

// PrintLocation prints a single location sub-record.
func (p *Printer) PrintLocation(loc *models.LocationData) error {
	var v any = struct{}{}
	if loc != nil {
		v = loc
	}
	return p.writeJSON(v)
}

func (p *Printer) writeBlock(name string, v any) error {
	if _, err := fmt.Fprintln(p.Out, name); err != nil {
		return ec.ErrIO.Clone().Warp(err)
	}
	return p.writeJSON(v)
}

func (p *Printer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return ec.ErrMarshalFailed.Clone().Warp(err)
	}
	return p.write(data)
}

func (p *Printer) write(data []byte) error {
	if _, err := fmt.Fprintln(p.Out, string(data)); err != nil {
		return ec.ErrIO.Clone().Warp(err)
	}
	return nil
}

// Schema returns the JSON schema of the aggregate result.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(models.AggregateResult{})
	schema.Title = "PWS aggregate result"
	schema.Description = "Station name to the records scraped from its dashboard"

	data, err := json.MarshalIndent(schema, "", indent)
	if err != nil {
		return nil, ec.ErrMarshalFailed.Clone().Warp(err)
	}
	return data, nil
}
