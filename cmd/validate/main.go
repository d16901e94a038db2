// Command validate performs offline integrity checks on the artifacts the
// service loads at startup: the region rules file and the classifier model
// artifact. It verifies structural validity, cross-artifact consistency,
// and that inference over each rule's nominal features produces coherent
// output (probabilities and attribution weights that sum to one).
//
// Usage:
//
//	go run ./cmd/validate -rules data/region_rules.json -model data/risk_model.json
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/couchcryptid/land-risk-service/internal/domain"
	"github.com/couchcryptid/land-risk-service/internal/model"
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
	rulesPath := flag.String("rules", "data/region_rules.json", "path to region rules artifact")
	modelPath := flag.String("model", "data/risk_model.json", "path to classifier model artifact")
	flag.Parse()

	if code := run(*rulesPath, *modelPath); code != 0 {
		os.Exit(code)
	}
}

func run(rulesPath, modelPath string) int {
	fmt.Println("=== Land Risk Artifact Validation ===")
	fmt.Println()

	rules, err := domain.LoadRuleTable(rulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load region rules: %v\n", err)
		return 1
	}

	artifact, err := model.LoadArtifact(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load model artifact: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRules(rules),
		validateArtifact(artifact),
		validateInference(rules, artifact),
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

	fmt.Println()
	fmt.Printf("Artifacts: %d region rules, %d trees, %d classes, secondary=%v\n",
		len(rules), len(artifact.Forest.Trees), len(artifact.Classes), artifact.Secondary != nil)

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

// ── Phase 1: Region Rules ──
// Structural checks beyond what LoadRuleTable enforces: non-degenerate
// boxes, unique names, and first-match resolution at each rule's center.

func validateRules(rules domain.RuleTable) *phase {
	p := &phase{name: "Phase 1: Region Rules"}

	if len(rules) == 0 {
		p.errorf("rule table is empty")
		return p
	}

	seen := map[string]int{}
	for i, r := range rules {
		if prev, ok := seen[r.Name]; ok {
			p.errorf("rule %d: duplicate name %q (also rule %d)", i, r.Name, prev)
		}
		seen[r.Name] = i

		if r.MinLat == r.MaxLat || r.MinLon == r.MaxLon {
			p.errorf("rule %d (%q): degenerate bounding box", i, r.Name)
		}
		if r.RainfallIntensity < 0 || r.FloodFrequency < 0 || r.DistanceFromRiver < 0 {
			p.errorf("rule %d (%q): negative nominal value", i, r.Name)
		}
	}

	// A rule shadowed even at its own center can never match anything
	// meaningful; flag it so operators reorder the table.
	for i, r := range rules {
		lat := (r.MinLat + r.MaxLat) / 2
		lon := (r.MinLon + r.MaxLon) / 2
		matched, ok := rules.Match(lat, lon)
		if !ok {
			p.errorf("rule %d (%q): center (%g, %g) matches no rule", i, r.Name, lat, lon)
			continue
		}
		if matched.Name != r.Name {
			p.errorf("rule %d (%q): center is shadowed by earlier rule %q", i, r.Name, matched.Name)
		}
	}

	return p
}

// ── Phase 2: Model Artifact ──
// Checks beyond Artifact.Validate: leaf value sanity and importance mass.

func validateArtifact(a *model.Artifact) *phase {
	p := &phase{name: "Phase 2: Model Artifact"}

	if err := a.Validate(); err != nil {
		p.errorf("artifact validation: %v", err)
		return p
	}

	classSet := map[string]bool{}
	for _, c := range a.Classes {
		if classSet[c] {
			p.errorf("duplicate class label %q", c)
		}
		classSet[c] = true
	}

	for ti := range a.Forest.Trees {
		checkTreeValues(p, fmt.Sprintf("forest tree %d", ti), &a.Forest.Trees[ti])
	}
	if a.Secondary != nil {
		checkTreeValues(p, "secondary tree", a.Secondary)
	}

	if len(a.Importances) > 0 {
		total := 0.0
		for i, v := range a.Importances {
			if v < 0 {
				p.errorf("importances[%d] is negative: %g", i, v)
			}
			total += v
		}
		if math.Abs(total-1.0) > 1e-6 {
			p.errorf("importances sum to %g, expected 1.0", total)
		}
	}

	return p
}

func checkTreeValues(p *phase, label string, t *model.Tree) {
	for node := range t.Value {
		total := 0.0
		for _, v := range t.Value[node] {
			if v < 0 {
				p.errorf("%s: node %d has negative class value", label, node)
			}
			total += v
		}
		if total == 0 {
			p.errorf("%s: node %d has zero total class mass", label, node)
		}
	}
}

// ── Phase 3: Inference Sanity ──
// Predicts each rule's nominal feature vector plus the hardcoded defaults
// and checks the outputs are coherent distributions.

func validateInference(rules domain.RuleTable, a *model.Artifact) *phase {
	p := &phase{name: "Phase 3: Inference Sanity"}

	classifier, err := model.NewClassifier(a)
	if err != nil {
		p.errorf("build classifier: %v", err)
		return p
	}

	vectors := map[string]domain.FeatureVector{"defaults": domain.DefaultFeatures()}
	for _, r := range rules {
		fv := domain.DefaultFeatures()
		if r.SoilType != "" {
			fv.SoilType = domain.SoilType(r.SoilType)
		}
		if r.ElevationCategory != "" {
			fv.ElevationCategory = domain.ElevationCategory(r.ElevationCategory)
		}
		fv.RainfallIntensity = r.RainfallIntensity
		fv.FloodFrequency = r.FloodFrequency
		fv.DistanceFromRiver = r.DistanceFromRiver
		vectors[r.Name] = fv
	}

	for name, fv := range vectors {
		pred, err := classifier.Predict(fv)
		if err != nil {
			p.errorf("%s: predict: %v", name, err)
			continue
		}
		if pred.Label == "" {
			p.errorf("%s: empty prediction label", name)
		}
		if pred.Confidence <= 0 || pred.Confidence > 1 {
			p.errorf("%s: confidence %g outside (0, 1]", name, pred.Confidence)
		}
		if pred.Probabilities != nil {
			total := 0.0
			for _, v := range pred.Probabilities {
				total += v
			}
			if math.Abs(total-1.0) > 1e-6 {
				p.errorf("%s: probabilities sum to %g, expected 1.0", name, total)
			}
		}

		attr := classifier.Attribute(fv)
		if attr.Tier == model.TierNone {
			p.errorf("%s: attribution cascade produced no weights", name)
			continue
		}
		total := 0.0
		for _, w := range attr.Weights {
			if w < 0 {
				p.errorf("%s: negative attribution weight", name)
			}
			total += w
		}
		if math.Abs(total-1.0) > domain.WeightTolerance {
			p.errorf("%s: attribution weights sum to %g, expected 1.0", name, total)
		}
	}

	return p
}
