package domain

// ElementCode is the three-character code tagging one row of a bulletin.
type ElementCode string

const (
	ElemSkyCover      ElementCode = "SKY" // sky cover, percent
	ElemWindSpeed     ElementCode = "WSP" // sustained wind, knots
	ElemWindGust      ElementCode = "GST" // wind gust, knots
	ElemWindDirection ElementCode = "WDR" // wind direction, tens of degrees
	ElemTemperature   ElementCode = "TMP" // temperature, degrees F
	ElemDewpoint      ElementCode = "DPT" // dewpoint, degrees F
	ElemVisibility    ElementCode = "VIS" // visibility, tenths of miles on the wire
	ElemCeiling       ElementCode = "CIG" // ceiling, hundreds of feet on the wire
	ElemProbFreezing  ElementCode = "PZR" // freezing rain probability, percent
	ElemProbSnow      ElementCode = "PSN" // snow probability, percent
	ElemProbSleet     ElementCode = "PPL" // sleet probability, percent
	ElemProbRain      ElementCode = "PRA" // rain probability, percent

	// Thunderstorm probability carries the product cadence in its code.
	ElemThunder1h  ElementCode = "T01"
	ElemThunder3h  ElementCode = "T03"
	ElemThunder12h ElementCode = "T12"
)

// baseElements are decoded from every bulletin product. Each product adds its
// cadence-specific thunderstorm code on top.
var baseElements = []ElementCode{
	ElemSkyCover, ElemWindSpeed, ElemWindGust, ElemWindDirection,
	ElemTemperature, ElemDewpoint, ElemVisibility, ElemCeiling,
	ElemProbFreezing, ElemProbSnow, ElemProbSleet, ElemProbRain,
}
