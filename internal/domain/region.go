package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// RegionRule names a geographic bounding box with nominal environmental
// values for parcels inside it. Rules come from the region_rules.json
// artifact written by operators; the list order is intentional.
type RegionRule struct {
	Name              string  `json:"name"`
	MinLat            float64 `json:"min_lat"`
	MaxLat            float64 `json:"max_lat"`
	MinLon            float64 `json:"min_lon"`
	MaxLon            float64 `json:"max_lon"`
	SoilType          string  `json:"soil_type"`
	RainfallIntensity float64 `json:"rainfall_intensity"`
	FloodFrequency    float64 `json:"flood_frequency"`
	ElevationCategory string  `json:"elevation_category"`
	DistanceFromRiver float64 `json:"distance_from_river"`
}

// Contains reports whether the point lies inside the rule's bounding box.
// All four edges are inclusive.
func (r RegionRule) Contains(lat, lon float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lon >= r.MinLon && lon <= r.MaxLon
}

// RuleTable is the ordered, read-only list of region rules. It is loaded
// once at startup and shared across requests without synchronization.
type RuleTable []RegionRule

// Match returns the first rule whose bounding box contains the point.
// When boxes overlap, insertion order wins: operators order the artifact
// deliberately, so the table never re-ranks by area or priority.
func (t RuleTable) Match(lat, lon float64) (*RegionRule, bool) {
	for i := range t {
		if t[i].Contains(lat, lon) {
			return &t[i], true
		}
	}
	return nil, false
}

// LoadRuleTable reads the region rules artifact from path.
func LoadRuleTable(path string) (RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region rules: %w", err)
	}
	var table RuleTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse region rules: %w", err)
	}
	for i, r := range table {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("region rule %d (%q): %w", i, r.Name, err)
		}
	}
	return table, nil
}

func (r RegionRule) validate() error {
	if r.Name == "" {
		return fmt.Errorf("missing name")
	}
	if r.MinLat > r.MaxLat {
		return fmt.Errorf("min_lat %v > max_lat %v", r.MinLat, r.MaxLat)
	}
	if r.MinLon > r.MaxLon {
		return fmt.Errorf("min_lon %v > max_lon %v", r.MinLon, r.MaxLon)
	}
	if r.SoilType != "" && !ValidSoilType(r.SoilType) {
		return fmt.Errorf("unknown soil_type %q", r.SoilType)
	}
	if r.ElevationCategory != "" && !ValidElevationCategory(r.ElevationCategory) {
		return fmt.Errorf("unknown elevation_category %q", r.ElevationCategory)
	}
	return nil
}
