package domain

import (
	"math"
	"sort"
	"time"
)

// Sentinel values reserved by the NBM text format.
const (
	// sentinelUnlimited marks an unlimited ceiling on the wire.
	sentinelUnlimited = -88
	// sentinelNoData marks a value the blend could not compute. Dropped
	// during normalization, not during decoding.
	sentinelNoData = -99
)

// CeilingUnlimited is the in-memory marker for an unlimited ceiling. The wire
// sentinel (-88) is converted to this during decoding so downstream code never
// mistakes it for a measurement.
var CeilingUnlimited = math.Inf(1)

// HourlyRecord maps element codes to decoded values for one forecast hour.
// A missing key means the bulletin column held no value for that element.
type HourlyRecord map[ElementCode]float64

// BulletinTable is the decoded form of one station's bulletin section:
// absolute UTC timestamps, spaced at the product cadence, each holding one
// HourlyRecord.
type BulletinTable map[time.Time]HourlyRecord

// Times returns the table's timestamps in increasing order.
func (t BulletinTable) Times() []time.Time {
	out := make([]time.Time, 0, len(t))
	for ts := range t {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// NormalizedObservation is the final per-time-slice output: primary values,
// derived quantities, and the resolved dominant condition. It is created per
// hour and never mutated after construction. Wind speeds are in knots as
// reported; visibility in miles; ceiling in feet.
type NormalizedObservation struct {
	Time    time.Time `json:"time"`
	Station string    `json:"station,omitempty"`

	Temperature      *float64 `json:"temperature,omitempty"`
	Dewpoint         *float64 `json:"dewpoint,omitempty"`
	WindSpeed        *float64 `json:"wind_speed,omitempty"`
	WindGust         *float64 `json:"wind_gust,omitempty"`
	WindDirection    *float64 `json:"wind_direction,omitempty"`
	RelativeHumidity *float64 `json:"relative_humidity,omitempty"`
	Visibility       *float64 `json:"visibility,omitempty"`
	Ceiling          *float64 `json:"ceiling,omitempty"`
	CeilingUnlimited bool     `json:"ceiling_unlimited,omitempty"`

	HeatIndex *float64 `json:"heat_index,omitempty"`
	WindChill *float64 `json:"wind_chill,omitempty"`

	Condition   ConditionTag `json:"condition"`
	Icon        string       `json:"icon,omitempty"`
	Description string       `json:"description,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}
