package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
)

// DayPhase selects the day or night presentation of an icon. The phase is
// computed by the caller from sunrise/sunset; day is the default.
type DayPhase int

const (
	PhaseDay DayPhase = iota
	PhaseNight
)

func (p DayPhase) String() string {
	if p == PhaseNight {
		return "night"
	}
	return "day"
}

// IconEntry is the presentation record for one condition tag.
type IconEntry struct {
	Rank        int    `json:"hierarchy"`
	Day         string `json:"day"`
	Night       string `json:"night"`
	Description string `json:"description"`
}

// Icon is a resolved presentation: one icon reference plus its description.
type Icon struct {
	Icon        string `json:"icon"`
	Description string `json:"wx"`
}

// IconTable maps condition tags to presentation records and carries the
// condition hierarchy derived from their ranks. Loaded once at startup,
// read-only afterward.
type IconTable struct {
	entries   map[ConditionTag]IconEntry
	hierarchy Hierarchy
}

// knownSimpleTags is the closed vocabulary the flag derivation can emit;
// compound icon keys may only be assembled from these.
var knownSimpleTags = map[ConditionTag]bool{
	CondClear: true, CondFewClouds: true, CondScattered: true,
	CondBroken: true, CondOvercast: true, CondWindy: true,
	CondIsolated: true, CondShowery: true, CondRain: true,
	CondSnow: true, CondSleet: true, CondFreezingRain: true,
	CondThunderstorm: true, CondCold: true, CondHot: true,
}

// constituentOnlyTags never resolve on their own; they appear only inside
// compound keys, so the table need not carry entries for them.
var constituentOnlyTags = map[ConditionTag]bool{
	CondIsolated: true,
	CondShowery:  true,
}

// NewIconTable validates entries and builds the table. Gaps are configuration
// errors: resolution and classification must never fall back silently at
// request time.
func NewIconTable(entries map[ConditionTag]IconEntry) (*IconTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: icon table is empty", ErrConfiguration)
	}
	if _, ok := entries[CondClear]; !ok {
		return nil, fmt.Errorf("%w: icon table missing default tag %q", ErrConfiguration, CondClear)
	}
	hierarchy := make(Hierarchy, len(entries))
	for tag, e := range entries {
		for _, part := range tag.constituents() {
			if !knownSimpleTags[ConditionTag(part)] {
				return nil, fmt.Errorf("%w: icon tag %q has unknown constituent %q", ErrConfiguration, tag, part)
			}
		}
		if e.Rank < 0 {
			return nil, fmt.Errorf("%w: icon tag %q has negative rank", ErrConfiguration, tag)
		}
		if e.Day == "" || e.Night == "" || e.Description == "" {
			return nil, fmt.Errorf("%w: icon tag %q is missing icon or description", ErrConfiguration, tag)
		}
		hierarchy[tag] = e.Rank
	}
	// Every tag resolution can produce on its own needs a rank, or the
	// resolver would silently drop that flag at request time.
	for tag := range knownSimpleTags {
		if constituentOnlyTags[tag] {
			continue
		}
		if _, ok := entries[tag]; !ok {
			return nil, fmt.Errorf("%w: no icon entry for producible condition %q", ErrConfiguration, tag)
		}
	}
	cp := make(map[ConditionTag]IconEntry, len(entries))
	for tag, e := range entries {
		cp[tag] = e
	}
	return &IconTable{entries: cp, hierarchy: hierarchy}, nil
}

// LoadIconTable reads and validates the icon table from a JSON file keyed by
// condition tag.
func LoadIconTable(path string) (*IconTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read icon table: %w", err)
	}
	var entries map[ConditionTag]IconEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse icon table %s: %v", ErrConfiguration, path, err)
	}
	return NewIconTable(entries)
}

// Hierarchy returns the condition ranking derived from the table.
func (t *IconTable) Hierarchy() Hierarchy { return t.hierarchy }

// Len reports the number of icon entries.
func (t *IconTable) Len() int { return len(t.entries) }

// Classify returns the icon and description for a resolved condition tag.
// An unknown tag indicates a gap that load-time validation should have
// caught, so it is reported as a configuration error.
func (t *IconTable) Classify(tag ConditionTag, phase DayPhase) (Icon, error) {
	e, ok := t.entries[tag]
	if !ok {
		return Icon{}, fmt.Errorf("%w: condition %q has no icon entry", ErrConfiguration, tag)
	}
	icon := e.Day
	if phase == PhaseNight {
		icon = e.Night
	}
	return Icon{Icon: icon, Description: e.Description}, nil
}

// ClassifyLink classifies a raw icon-link URL from an external feed.
// DualImage links encode several simultaneous conditions as single-letter
// query parameters; the highest-ranked named condition wins. Plain links
// carry one condition as the alphabetic token before the file extension.
// Any extraction failure falls back to the clear sky tag.
func (t *IconTable) ClassifyLink(link string, phase DayPhase) Icon {
	icon, err := t.Classify(t.LinkCondition(link), phase)
	if err != nil {
		// skc is validated at load time, so this only fires for an
		// unvalidated table; degrade to an empty icon rather than panic.
		return Icon{}
	}
	return icon
}

// LinkCondition extracts the condition tag a raw icon-link URL names.
// Unrecognized links resolve to the clear sky tag.
func (t *IconTable) LinkCondition(link string) ConditionTag {
	if strings.Contains(link, "DualImage") {
		return t.bestLinkedCondition(link)
	}
	if name := linkConditionName(link); name != "" {
		if _, ok := t.entries[ConditionTag(name)]; ok {
			return ConditionTag(name)
		}
	}
	return CondClear
}

// bestLinkedCondition picks the highest-ranked condition named by a DualImage
// URL's single-letter query parameters.
func (t *IconTable) bestLinkedCondition(link string) ConditionTag {
	u, err := url.Parse(link)
	if err != nil {
		return CondClear
	}
	best := CondClear
	bestRank := -1
	for key, vals := range u.Query() {
		if len(key) != 1 {
			continue
		}
		for _, val := range vals {
			tag := ConditionTag(val)
			rank, ok := t.hierarchy[tag]
			if !ok {
				continue
			}
			if rank > bestRank || (rank == bestRank && tag < best) {
				best = tag
				bestRank = rank
			}
		}
	}
	return best
}

// linkConditionName extracts the alphabetic token preceding the three-letter
// file extension of an icon URL, e.g. ".../tsra60.png" -> "tsra". Returns ""
// when the URL does not fit that shape.
func linkConditionName(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	ext := path.Ext(name)
	if len(ext) != 4 {
		return ""
	}
	stem := name[:len(name)-len(ext)]
	for i := 0; i < len(stem); i++ {
		if isDigit(stem[i]) {
			return stem[:i]
		}
	}
	return stem
}
