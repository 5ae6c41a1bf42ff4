package domain

import (
	"math"
	"time"
)

// KnotsToMPH converts the knot wind speeds the data sources report to the
// mph the wind chill formula expects.
const KnotsToMPH = 1.15077945

// NormalizeRecord turns one decoded hour into a NormalizedObservation:
// primary values with no-data sentinels dropped, derived quantities, and the
// dominant condition with its icon. current selects the stricter probability
// threshold used for present-conditions context.
func NormalizeRecord(ts time.Time, rec HourlyRecord, station Station, product Product, icons *IconTable, phase DayPhase, current bool) (NormalizedObservation, error) {
	tmp := optValue(rec, ElemTemperature)
	dpt := optValue(rec, ElemDewpoint)

	var windMPH *float64
	if wsp := optValue(rec, ElemWindSpeed); wsp != nil {
		mph := *wsp * KnotsToMPH
		windMPH = &mph
	}

	derived := Derive(tmp, windMPH, nil, dpt)
	flags := ConditionFlags(rec, product, derived, current)
	condition := icons.Hierarchy().Resolve(flags)
	icon, err := icons.Classify(condition, phase)
	if err != nil {
		return NormalizedObservation{}, err
	}

	obs := NormalizedObservation{
		Time:             ts,
		Station:          station.ID,
		Temperature:      tmp,
		Dewpoint:         dpt,
		WindSpeed:        optValue(rec, ElemWindSpeed),
		WindGust:         optValue(rec, ElemWindGust),
		WindDirection:    optValue(rec, ElemWindDirection),
		RelativeHumidity: derived.RelativeHumidity,
		Visibility:       optValue(rec, ElemVisibility),
		HeatIndex:        derived.HeatIndex,
		WindChill:        derived.WindChill,
		Condition:        condition,
		Icon:             icon.Icon,
		Description:      icon.Description,
		ProcessedAt:      clock.Now().UTC(),
	}

	if ceil := optValue(rec, ElemCeiling); ceil != nil {
		if math.IsInf(*ceil, 1) {
			obs.CeilingUnlimited = true
		} else {
			obs.Ceiling = ceil
		}
	}
	return obs, nil
}

// NormalizeTable normalizes every hour of a decoded bulletin in time order.
func NormalizeTable(table BulletinTable, station Station, product Product, icons *IconTable, phase DayPhase) ([]NormalizedObservation, error) {
	out := make([]NormalizedObservation, 0, len(table))
	for _, ts := range table.Times() {
		obs, err := NormalizeRecord(ts, table[ts], station, product, icons, phase, false)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	return out, nil
}

// optValue returns a copy of a record value, or nil when the element is
// absent or holds the no-data sentinel.
func optValue(rec HourlyRecord, code ElementCode) *float64 {
	v, ok := defined(rec, code)
	if !ok {
		return nil
	}
	return &v
}
