package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// sectionBreakRe marks the end of a station's section: a newline followed
	// by a run of at least ten spaces.
	sectionBreakRe = regexp.MustCompile(`\n\s{10}`)

	// elementPrefixRe captures the three-character code opening a bulletin row.
	elementPrefixRe = regexp.MustCompile(`[A-Za-z0-9]{3}`)

	// shortRangeDateRe pulls the month/day tokens following the first slash
	// of an NBS date header, e.g. "DT /JUNE 10" -> "JUN", "10".
	shortRangeDateRe = regexp.MustCompile(`/([A-Z]{3})[A-Z]*\s*(\d+)`)
)

var monthAbbrevs = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// DecodeBulletin parses the fixed-column text of one bulletin issuance into a
// BulletinTable for the given station. Column boundaries are computed once
// from the product's header row (the end offset of each digit run, preceded
// by an implicit boundary at zero) and reused for every data row. Rows whose
// element code is outside the product's set are discarded. Structural
// failures wrap ErrParse.
func DecodeBulletin(raw string, station Station, product Product, issuance time.Time) (BulletinTable, error) {
	start := strings.Index(raw, station.ID)
	if start < 0 {
		return nil, fmt.Errorf("%w: station %s not in %s bulletin", ErrParse, station.ID, product)
	}
	block := raw[start:]
	sep := sectionBreakRe.FindStringIndex(block)
	if sep == nil {
		return nil, fmt.Errorf("%w: section break not found after %s", ErrParse, station.ID)
	}
	lines := strings.Split(block[:sep[0]], "\n")

	hdr := product.headerRow()
	if len(lines) <= hdr {
		return nil, fmt.Errorf("%w: %s block for %s is truncated", ErrParse, product, station.ID)
	}

	hr0, err := firstHour(product, lines, issuance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	// Strip the trailing CLIMO column (usually present on NBE) by truncating
	// every row at its offset in the day header.
	if cut := strings.Index(lines[1], "CLIMO"); cut >= 0 {
		for i, ln := range lines {
			if len(ln) > cut {
				lines[i] = ln[:cut]
			}
		}
	}

	bounds := columnBounds(lines[hdr])
	if len(bounds) < 2 {
		return nil, fmt.Errorf("%w: no hour columns in %s header row", ErrParse, product)
	}
	cols := len(bounds) - 1

	elems := product.Elements()
	var codes []ElementCode
	values := make(map[ElementCode][]*float64)
	for _, ln := range lines {
		m := elementPrefixRe.FindStringIndex(ln)
		if m == nil {
			continue
		}
		code := ElementCode(ln[m[0]:m[1]])
		if !elems[code] {
			continue
		}
		if _, dup := values[code]; dup {
			continue
		}
		row := make([]*float64, cols)
		for i := 0; i < cols; i++ {
			lo, hi := bounds[i], bounds[i+1]
			if i == 0 && m[1] > lo {
				// Keep thunder codes like T01 from polluting the first column.
				lo = m[1]
			}
			if lo >= len(ln) {
				continue
			}
			if hi > len(ln) {
				hi = len(ln)
			}
			row[i] = firstNumber(ln[lo:hi])
		}
		codes = append(codes, code)
		values[code] = row
	}

	applyUnitFixups(values)

	table := make(BulletinTable, cols)
	for i := 0; i < cols; i++ {
		rec := make(HourlyRecord, len(codes))
		for _, code := range codes {
			if v := values[code][i]; v != nil {
				rec[code] = *v
			}
		}
		table[hr0.Add(time.Duration(i)*product.Cadence())] = rec
	}
	return table, nil
}

// firstHour derives the timestamp of the first hour column. NBH bulletins
// start one hour after issuance. NBS carries a month abbreviation and day on
// its date header and the first hour on the UTC row; the year comes from the
// issuance shifted six hours forward to survive a New Year rollover. NBE
// carries day-of-month and hour on two header rows, valid the day after
// issuance.
func firstHour(product Product, lines []string, issuance time.Time) (time.Time, error) {
	switch product {
	case ProductHourly:
		return issuance.Add(time.Hour), nil

	case ProductShortRange:
		m := shortRangeDateRe.FindStringSubmatch(lines[1])
		if m == nil {
			return time.Time{}, fmt.Errorf("short-range date tokens not found in %q", lines[1])
		}
		month, ok := monthAbbrevs[m[1]]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month abbreviation %q", m[1])
		}
		day, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("short-range day token: %v", err)
		}
		hour, err := firstInt(lines[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("short-range hour token: %v", err)
		}
		year := issuance.Add(6 * time.Hour).Year()
		return time.Date(year, month, day, hour, 0, 0, 0, time.UTC), nil

	case ProductExtended:
		dayLine := lines[1]
		if i := strings.IndexByte(dayLine, '|'); i >= 0 {
			dayLine = dayLine[:i]
		}
		day, err := firstInt(dayLine)
		if err != nil {
			return time.Time{}, fmt.Errorf("extended day token: %v", err)
		}
		hour, err := firstInt(lines[2])
		if err != nil {
			return time.Time{}, fmt.Errorf("extended hour token: %v", err)
		}
		base := issuance.AddDate(0, 0, 1)
		return time.Date(base.Year(), base.Month(), day, hour, 0, 0, 0, time.UTC), nil

	default:
		return time.Time{}, fmt.Errorf("unknown product %d", int(product))
	}
}

// columnBounds returns the hour-column boundaries of a header row: an
// implicit 0 followed by the end offset of each digit run.
func columnBounds(header string) []int {
	bounds := []int{0}
	for i := 0; i < len(header); {
		if !isDigit(header[i]) {
			i++
			continue
		}
		j := i
		for j < len(header) && isDigit(header[j]) {
			j++
		}
		bounds = append(bounds, j)
		i = j
	}
	return bounds
}

// firstNumber extracts the first digit run in a column slice, keeping an
// immediately preceding minus sign so sentinels like -88 and sub-zero
// temperatures survive. Returns nil when the slice holds no digits.
func firstNumber(s string) *float64 {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			continue
		}
		j := i
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		tok := s[i:j]
		if i > 0 && s[i-1] == '-' {
			tok = "-" + tok
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

func firstInt(s string) (int, error) {
	v := firstNumber(s)
	if v == nil {
		return 0, fmt.Errorf("no digits in %q", s)
	}
	return int(*v), nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// applyUnitFixups converts wire units to display units in place. Ceiling is
// reported in hundreds of feet with -88 meaning unlimited; visibility in
// tenths of miles. The -99 no-data sentinel passes through unscaled so
// normalization can recognize and drop it.
func applyUnitFixups(values map[ElementCode][]*float64) {
	for _, v := range values[ElemCeiling] {
		if v == nil {
			continue
		}
		switch *v {
		case sentinelUnlimited:
			*v = CeilingUnlimited
		case sentinelNoData:
		default:
			*v *= 100
		}
	}
	for _, v := range values[ElemVisibility] {
		if v == nil || *v == sentinelNoData {
			continue
		}
		*v /= 10
	}
}
