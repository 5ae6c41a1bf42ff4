package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Station is one NBM reporting site. The table is loaded once at startup and
// read-only for the life of the process.
type Station struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StationTable holds the immutable station reference table.
type StationTable struct {
	stations []Station
}

// NewStationTable builds a table from a station list.
func NewStationTable(stations []Station) (*StationTable, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("%w: station table is empty", ErrConfiguration)
	}
	seen := make(map[string]bool, len(stations))
	for _, s := range stations {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: station with empty id", ErrConfiguration)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: duplicate station %q", ErrConfiguration, s.ID)
		}
		seen[s.ID] = true
	}
	cp := make([]Station, len(stations))
	copy(cp, stations)
	return &StationTable{stations: cp}, nil
}

// stationFile is the on-disk shape: station id mapped to coordinates.
type stationFile map[string]struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LoadStationTable reads the station table from a JSON file keyed by station id.
func LoadStationTable(path string) (*StationTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station table: %w", err)
	}
	var file stationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse station table %s: %v", ErrConfiguration, path, err)
	}
	stations := make([]Station, 0, len(file))
	for id, coord := range file {
		stations = append(stations, Station{ID: id, Lat: coord.Lat, Lon: coord.Lon})
	}
	return NewStationTable(stations)
}

// Len reports the number of stations in the table.
func (t *StationTable) Len() int { return len(t.stations) }

// All returns the stations in the table. The returned slice is shared and
// must not be modified.
func (t *StationTable) All() []Station { return t.stations }

// Lookup finds a station by identifier.
func (t *StationTable) Lookup(id string) (Station, bool) {
	for _, s := range t.stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// Nearest returns the station minimizing a latitude-scaled squared distance,
// (dLon*cos(lat))^2 + dLat^2. This is not great-circle distance; longitude
// is scaled because a degree of longitude shrinks toward the poles.
func (t *StationTable) Nearest(lat, lon float64) Station {
	scale := math.Cos(lat * math.Pi / 180)
	best := t.stations[0]
	bestDelta := math.Inf(1)
	for _, s := range t.stations {
		dLon := (lon - s.Lon) * scale
		dLat := lat - s.Lat
		delta := dLon*dLon + dLat*dLat
		if delta < bestDelta {
			best = s
			bestDelta = delta
		}
	}
	return best
}
