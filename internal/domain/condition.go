package domain

import "strings"

// ConditionTag names one weather condition from the closed vocabulary used by
// the icon table. Compound tags join simple tags with underscores and are
// true only when every constituent is simultaneously true.
type ConditionTag string

const (
	CondClear        ConditionTag = "skc"
	CondFewClouds    ConditionTag = "few"
	CondScattered    ConditionTag = "sct"
	CondBroken       ConditionTag = "bkn"
	CondOvercast     ConditionTag = "ovc"
	CondWindy        ConditionTag = "wind"
	CondIsolated     ConditionTag = "hi" // partial sky cover, constituent-only
	CondShowery      ConditionTag = "showers"
	CondRain         ConditionTag = "rain"
	CondSnow         ConditionTag = "snow"
	CondSleet        ConditionTag = "sleet"
	CondFreezingRain ConditionTag = "fzra"
	CondThunderstorm ConditionTag = "tsra"
	CondCold         ConditionTag = "cold"
	CondHot          ConditionTag = "hot"
)

// constituents splits a compound tag into its simple parts.
func (c ConditionTag) constituents() []string {
	return strings.Split(string(c), "_")
}

// FlagSet is the set of simple condition tags simultaneously true for one
// time slice.
type FlagSet map[ConditionTag]bool

// covers reports whether every constituent of tag is present in the set.
func (f FlagSet) covers(tag ConditionTag) bool {
	for _, part := range tag.constituents() {
		if !f[ConditionTag(part)] {
			return false
		}
	}
	return true
}

// Sky-cover percentage bands. A band's flag is raised when cover meets or
// exceeds its threshold, so higher bands imply the lower ones.
var skyBands = map[ConditionTag]float64{
	CondClear:     0,
	CondFewClouds: 12.5,
	CondScattered: 37.5,
	CondBroken:    62.5,
	CondOvercast:  87.5,
}

// partialSkyCeiling: flags raised when cover is at or below the threshold,
// marking sky open enough for isolated or showery variants of precipitation.
var partialSkyCeiling = map[ConditionTag]float64{
	CondIsolated: 60,
	CondShowery:  60,
}

// Hierarchy is a total order over condition tags: the tag with the highest
// rank among those simultaneously true is the dominant condition.
type Hierarchy map[ConditionTag]int

// ConditionFlags derives the raw flag set for one record. Probability-driven
// flags require the element to meet the quality threshold: 90 when the record
// describes a current observation, 20 for forecast context. The -99 no-data
// sentinel is treated as absent. Cold requires a wind chill or a temperature
// at or below 0°F; hot requires a heat index.
func ConditionFlags(rec HourlyRecord, product Product, derived Derived, current bool) FlagSet {
	flags := make(FlagSet)

	tmp, tmpOK := defined(rec, ElemTemperature)
	if derived.WindChill != nil || (tmpOK && tmp <= 0) {
		flags[CondCold] = true
	}
	if derived.HeatIndex != nil {
		flags[CondHot] = true
	}

	qual := 20.0
	if current {
		qual = 90
	}
	probFlags := map[ConditionTag]ElementCode{
		CondWindy:        ElemWindSpeed,
		CondRain:         ElemProbRain,
		CondSnow:         ElemProbSnow,
		CondFreezingRain: ElemProbFreezing,
		CondSleet:        ElemProbSleet,
		CondThunderstorm: product.ThunderCode(),
	}
	for tag, code := range probFlags {
		if v, ok := defined(rec, code); ok && v >= qual {
			flags[tag] = true
		}
	}

	if sky, ok := defined(rec, ElemSkyCover); ok {
		for tag, min := range skyBands {
			if sky >= min {
				flags[tag] = true
			}
		}
		for tag, max := range partialSkyCeiling {
			if sky <= max {
				flags[tag] = true
			}
		}
	}
	return flags
}

// Resolve picks the dominant condition: among the hierarchy's tags whose
// constituents are all present in the flag set, the one with the numerically
// highest rank. Rank ties break toward the lexically smaller tag so the
// result is deterministic. An empty candidate set yields the canonical clear
// sky tag.
func (h Hierarchy) Resolve(flags FlagSet) ConditionTag {
	best := CondClear
	bestRank := -1
	for tag, rank := range h {
		if !flags.covers(tag) {
			continue
		}
		if rank > bestRank || (rank == bestRank && tag < best) {
			best = tag
			bestRank = rank
		}
	}
	if bestRank < 0 {
		return CondClear
	}
	return best
}

// Dominant folds several resolved conditions into one, the highest ranked,
// for summarizing a day's hours into a single condition. Ties break toward
// the lexically smaller tag as in Resolve; an empty or unranked input yields
// the clear sky tag.
func (h Hierarchy) Dominant(tags []ConditionTag) ConditionTag {
	best := CondClear
	bestRank := -1
	for _, tag := range tags {
		rank, ok := h[tag]
		if !ok {
			continue
		}
		if rank > bestRank || (rank == bestRank && tag < best) {
			best = tag
			bestRank = rank
		}
	}
	return best
}

// defined returns a record value, treating the -99 no-data sentinel as absent.
func defined(rec HourlyRecord, code ElementCode) (float64, bool) {
	v, ok := rec[code]
	if !ok || v == sentinelNoData {
		return 0, false
	}
	return v, true
}
