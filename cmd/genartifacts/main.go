// Command genartifacts writes the local-development artifacts the service
// loads at startup: a region rules file and a small deterministic
// classifier artifact. Production deployments replace both with the real
// exports from the training collaborator.
//
// Usage:
//
//	go run ./cmd/genartifacts -out data
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/land-risk-service/internal/domain"
	"github.com/couchcryptid/land-risk-service/internal/model/modeltest"
)

func main() {
	outDir := flag.String("out", "data", "output directory for generated artifacts")
	flag.Parse()

	if err := run(*outDir); err != nil {
		fmt.Fprintf(os.Stderr, "genartifacts: %v\n", err)
		os.Exit(1)
	}
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	rulesPath := filepath.Join(outDir, "region_rules.json")
	if err := writeJSON(rulesPath, starterRules()); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d rules)\n", rulesPath, len(starterRules()))

	artifact := modeltest.Artifact()
	if err := artifact.Validate(); err != nil {
		return fmt.Errorf("generated artifact is invalid: %w", err)
	}
	modelPath := filepath.Join(outDir, "risk_model.json")
	if err := writeJSON(modelPath, artifact); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d trees, secondary=%v)\n", modelPath, len(artifact.Forest.Trees), artifact.Secondary != nil)

	return nil
}

// starterRules covers the three prototype regions: a coastal delta, the
// northern floodplains, and high foothills. Order matters: earlier rules
// win on overlap.
func starterRules() domain.RuleTable {
	return domain.RuleTable{
		{
			Name:   "coastal-delta",
			MinLat: 8, MaxLat: 22, MinLon: 68, MaxLon: 92,
			SoilType:          "clay",
			RainfallIntensity: 180,
			FloodFrequency:    3,
			ElevationCategory: "low",
			DistanceFromRiver: 0.5,
		},
		{
			Name:   "northern-plains",
			MinLat: 22, MaxLat: 29, MinLon: 70, MaxLon: 90,
			SoilType:          "silt",
			RainfallIntensity: 120,
			FloodFrequency:    2,
			ElevationCategory: "low",
			DistanceFromRiver: 1.0,
		},
		{
			Name:   "himalayan-foothills",
			MinLat: 29, MaxLat: 36, MinLon: 72, MaxLon: 95,
			SoilType:          "sandy",
			RainfallIntensity: 80,
			FloodFrequency:    1,
			ElevationCategory: "high",
			DistanceFromRiver: 3.0,
		},
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
