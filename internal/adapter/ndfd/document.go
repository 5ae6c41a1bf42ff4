// Package ndfd consumes the NDFD DWML time-series XML product: several named
// time layouts, each an ordered sequence of timestamps, and a parameters
// section whose elements reference one layout by key and carry a parallel
// sequence of values or icon links.
package ndfd

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

// dwml mirrors the parts of the DWML document this service reads.
type dwml struct {
	XMLName xml.Name `xml:"dwml"`
	Data    struct {
		TimeLayouts []timeLayout `xml:"time-layout"`
		Parameters  parameters   `xml:"parameters"`
	} `xml:"data"`
}

type timeLayout struct {
	Key    string   `xml:"layout-key"`
	Starts []string `xml:"start-valid-time"`
}

type parameters struct {
	Temperatures []valueElement `xml:"temperature"`
	WindSpeeds   []valueElement `xml:"wind-speed"`
	Directions   []valueElement `xml:"direction"`
	Humidities   []valueElement `xml:"humidity"`
	Ceilings     []valueElement `xml:"ceiling"`
	Icons        []iconElement  `xml:"conditions-icon"`
}

type valueElement struct {
	Type   string   `xml:"type,attr"`
	Layout string   `xml:"time-layout,attr"`
	Values []string `xml:"value"`
}

type iconElement struct {
	Layout string   `xml:"time-layout,attr"`
	Links  []string `xml:"icon-link"`
}

// Document is a parsed DWML time-series: the declared layouts plus the raw
// parameter elements, ready to be sampled at a reference instant.
type Document struct {
	Layouts map[string][]time.Time
	params  parameters
}

// ParseDocument decodes a DWML time-series document.
func ParseDocument(r io.Reader) (*Document, error) {
	var doc dwml
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode dwml: %w", err)
	}

	layouts := make(map[string][]time.Time, len(doc.Data.TimeLayouts))
	for _, tl := range doc.Data.TimeLayouts {
		if tl.Key == "" {
			return nil, fmt.Errorf("%w: time-layout without layout-key", domain.ErrTimeAlignment)
		}
		samples := make([]time.Time, 0, len(tl.Starts))
		for _, s := range tl.Starts {
			ts, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("%w: layout %s holds bad timestamp %q", domain.ErrTimeAlignment, tl.Key, s)
			}
			samples = append(samples, ts)
		}
		layouts[tl.Key] = samples
	}

	return &Document{Layouts: layouts, params: doc.Data.Parameters}, nil
}

// Sample holds the element values nearest a reference instant. Fields the
// document did not carry are nil; that is missing data, not a failure.
type Sample struct {
	Temperature      *float64
	Dewpoint         *float64
	WetBulbGlobe     *float64
	WindSpeed        *float64
	WindGust         *float64
	WindDirection    *float64
	RelativeHumidity *float64
	Ceiling          *float64
	IconLink         string
}

// SampleAt aligns every declared layout to the reference instant and reads
// each known element at its layout's selected index. An element referencing
// an undeclared layout fails the whole sample; callers never see a partial
// observation from a failed alignment.
func (d *Document) SampleAt(reference time.Time) (Sample, error) {
	indices, err := domain.AlignLayouts(d.Layouts, reference)
	if err != nil {
		return Sample{}, err
	}

	var s Sample
	reads := []struct {
		dst  **float64
		elem *valueElement
	}{
		{&s.Temperature, findTyped(d.params.Temperatures, "hourly")},
		{&s.Dewpoint, findTyped(d.params.Temperatures, "dew point")},
		{&s.WetBulbGlobe, findTyped(d.params.Temperatures, "wet bulb globe")},
		{&s.WindSpeed, findTyped(d.params.WindSpeeds, "sustained")},
		{&s.WindGust, findTyped(d.params.WindSpeeds, "gust")},
		{&s.WindDirection, findTyped(d.params.Directions, "wind")},
		{&s.RelativeHumidity, findTyped(d.params.Humidities, "relative")},
		{&s.Ceiling, first(d.params.Ceilings)},
	}
	for _, r := range reads {
		if r.elem == nil {
			continue
		}
		idx, err := domain.AlignedIndex(indices, r.elem.Layout)
		if err != nil {
			return Sample{}, err
		}
		if idx < len(r.elem.Values) {
			*r.dst = parseValue(r.elem.Values[idx])
		}
	}

	if len(d.params.Icons) > 0 {
		icon := d.params.Icons[0]
		idx, err := domain.AlignedIndex(indices, icon.Layout)
		if err != nil {
			return Sample{}, err
		}
		if idx < len(icon.Links) {
			s.IconLink = strings.TrimSpace(icon.Links[idx])
		}
	}
	return s, nil
}

// findTyped selects the element whose type attribute matches.
func findTyped(elems []valueElement, typ string) *valueElement {
	for i := range elems {
		if elems[i].Type == typ {
			return &elems[i]
		}
	}
	return nil
}

func first(elems []valueElement) *valueElement {
	if len(elems) == 0 {
		return nil
	}
	return &elems[0]
}

// parseValue converts a value's text to a number, treating empty or
// non-numeric text as missing data.
func parseValue(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
