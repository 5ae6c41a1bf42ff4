package domain

import (
	"fmt"
	"time"
)

// Product identifies one of the three NBM text bulletin products. Each has a
// fixed cadence, its own thunderstorm element code, and its own header-row
// rule for deriving the first valid hour.
type Product int

const (
	// ProductHourly is the NBH guidance: hourly values for the next day.
	ProductHourly Product = iota
	// ProductShortRange is the NBS guidance: 3-hourly values for a few days.
	ProductShortRange
	// ProductExtended is the NBE guidance: 12-hourly values for the next week.
	ProductExtended
)

// String returns the NOMADS product code used in bulletin file names.
func (p Product) String() string {
	switch p {
	case ProductHourly:
		return "nbh"
	case ProductShortRange:
		return "nbs"
	case ProductExtended:
		return "nbe"
	default:
		return fmt.Sprintf("Product(%d)", int(p))
	}
}

// ParseProduct converts a NOMADS product code to a Product.
func ParseProduct(s string) (Product, error) {
	switch s {
	case "nbh":
		return ProductHourly, nil
	case "nbs":
		return ProductShortRange, nil
	case "nbe":
		return ProductExtended, nil
	default:
		return 0, fmt.Errorf("unknown bulletin product %q", s)
	}
}

// Cadence is the interval between successive hour columns.
func (p Product) Cadence() time.Duration {
	switch p {
	case ProductShortRange:
		return 3 * time.Hour
	case ProductExtended:
		return 12 * time.Hour
	default:
		return time.Hour
	}
}

// ThunderCode is the thunderstorm-probability element for this cadence.
func (p Product) ThunderCode() ElementCode {
	switch p {
	case ProductShortRange:
		return ElemThunder3h
	case ProductExtended:
		return ElemThunder12h
	default:
		return ElemThunder1h
	}
}

// headerRow is the line index, within a station block, whose digit runs
// delimit the hour columns: the UTC row for NBH and NBE, the FHR row for NBS.
func (p Product) headerRow() int {
	switch p {
	case ProductShortRange:
		return 3
	case ProductExtended:
		return 2
	default:
		return 1
	}
}

// Elements returns the set of element codes decoded for this product.
func (p Product) Elements() map[ElementCode]bool {
	set := make(map[ElementCode]bool, len(baseElements)+1)
	for _, e := range baseElements {
		set[e] = true
	}
	set[p.ThunderCode()] = true
	return set
}
