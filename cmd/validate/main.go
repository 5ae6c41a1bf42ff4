// Command validate performs integrity checks on the service's startup
// tables and, optionally, on a saved bulletin file. It verifies that the
// station table and icon table load cleanly, that the icon hierarchy is
// well-formed, and that a given bulletin decodes into a complete table.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -stations data/stations.json \
//	  -icons data/icons.json \
//	  [-bulletin saved_nbh.txt -product nbh -station KCLT -issuance 2020-06-10T14:00:00Z]
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/AnimatronicEmulator/rainbow-rest/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	stationsPath := flag.String("stations", "data/stations.json", "path to station table JSON")
	iconsPath := flag.String("icons", "data/icons.json", "path to icon table JSON")
	bulletinPath := flag.String("bulletin", "", "optional path to a saved bulletin text file")
	productCode := flag.String("product", "nbh", "product code of the saved bulletin (nbh, nbs, nbe)")
	stationID := flag.String("station", "", "station identifier for the saved bulletin")
	issuanceStr := flag.String("issuance", "", "bulletin issuance time, RFC 3339")
	flag.Parse()

	if code := run(*stationsPath, *iconsPath, *bulletinPath, *productCode, *stationID, *issuanceStr); code != 0 {
		os.Exit(code)
	}
}

func run(stationsPath, iconsPath, bulletinPath, productCode, stationID, issuanceStr string) int {
	fmt.Println("=== Guidance Table Validation ===")
	fmt.Println()

	stations, stationPhase := validateStations(stationsPath)
	icons, iconPhase := validateIcons(iconsPath)

	phases := []*phase{stationPhase, iconPhase}
	if bulletinPath != "" {
		phases = append(phases, validateBulletin(bulletinPath, productCode, stationID, issuanceStr, stations, icons))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Station Table ──
// Loads the station table and checks coordinate plausibility.

func validateStations(path string) (*domain.StationTable, *phase) {
	p := &phase{name: "Phase 1: Station Table"}

	stations, err := domain.LoadStationTable(path)
	if err != nil {
		p.errorf("load: %v", err)
		return nil, p
	}

	n := 0
	for _, s := range stations.All() {
		n++
		if s.Lat < -90 || s.Lat > 90 {
			p.errorf("%s: latitude %g out of range", s.ID, s.Lat)
		}
		if s.Lon < -180 || s.Lon > 180 {
			p.errorf("%s: longitude %g out of range", s.ID, s.Lon)
		}
		if s.Lat == 0 && s.Lon == 0 {
			p.errorf("%s: coordinates are both zero", s.ID)
		}
	}
	fmt.Printf("  Stations loaded: %d\n", n)
	return stations, p
}

// ── Phase 2: Icon Table ──
// Loads the icon table and checks that every entry classifies in both
// day phases and that ranks are unique.

func validateIcons(path string) (*domain.IconTable, *phase) {
	p := &phase{name: "Phase 2: Icon Table"}

	icons, err := domain.LoadIconTable(path)
	if err != nil {
		p.errorf("load: %v", err)
		return nil, p
	}

	ranks := map[int]domain.ConditionTag{}
	for tag, rank := range icons.Hierarchy() {
		if prev, dup := ranks[rank]; dup {
			p.errorf("rank %d shared by %q and %q", rank, prev, tag)
		}
		ranks[rank] = tag

		for _, ph := range []domain.DayPhase{domain.PhaseDay, domain.PhaseNight} {
			if _, err := icons.Classify(tag, ph); err != nil {
				p.errorf("%s: classify (%s): %v", tag, ph, err)
			}
		}
	}
	fmt.Printf("  Icon entries loaded: %d\n", icons.Len())
	return icons, p
}

// ── Phase 3: Bulletin Decode ──
// Decodes a saved bulletin end to end and checks record completeness.

func validateBulletin(path, productCode, stationID, issuanceStr string, stations *domain.StationTable, icons *domain.IconTable) *phase {
	p := &phase{name: "Phase 3: Bulletin Decode"}

	if stations == nil || icons == nil {
		p.errorf("skipped: table phases failed")
		return p
	}

	product, err := domain.ParseProduct(productCode)
	if err != nil {
		p.errorf("product: %v", err)
		return p
	}
	station, ok := stations.Lookup(stationID)
	if !ok {
		p.errorf("station %q not in table", stationID)
		return p
	}
	issuance, err := time.Parse(time.RFC3339, issuanceStr)
	if err != nil {
		p.errorf("issuance: %v", err)
		return p
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		p.errorf("read bulletin: %v", err)
		return p
	}

	table, err := domain.DecodeBulletin(string(raw), station, product, issuance)
	if err != nil {
		p.errorf("decode: %v", err)
		return p
	}
	times := table.Times()
	if len(times) == 0 {
		p.errorf("decoded table is empty")
		return p
	}
	fmt.Printf("  Decoded %d records, %s through %s\n",
		len(times), times[0].Format(time.RFC3339), times[len(times)-1].Format(time.RFC3339))

	// Timestamps must advance by exactly one product cadence per column.
	for i := 1; i < len(times); i++ {
		if got := times[i].Sub(times[i-1]); got != product.Cadence() {
			p.errorf("gap between %s and %s is %s, want %s",
				times[i-1].Format(time.RFC3339), times[i].Format(time.RFC3339), got, product.Cadence())
		}
	}

	obs, err := domain.NormalizeTable(table, station, product, icons, domain.PhaseDay)
	if err != nil {
		p.errorf("normalize: %v", err)
		return p
	}
	for i := range obs {
		if obs[i].Condition == "" {
			p.errorf("observation %d: empty condition", i)
		}
		if obs[i].Icon == "" {
			p.errorf("observation %d: empty icon", i)
		}
		if obs[i].Temperature != nil && math.Abs(*obs[i].Temperature) > 150 {
			p.errorf("observation %d: implausible temperature %g", i, *obs[i].Temperature)
		}
	}
	return p
}
