package domain

import (
	"context"
	"log/slog"
)

// ResolvedFeatures bundles a complete feature vector with everything the
// rest of the pipeline needs to explain where it came from.
type ResolvedFeatures struct {
	Features         FeatureVector
	Provenance       Provenance
	Rule             *RegionRule // matched region rule, nil when none matched
	Region           string      // matched rule name, "" when none matched
	Latitude         float64
	Longitude        float64
	HasCoordinates   bool
	RainfallCategory RainfallCategory
}

// ResolveFromCoordinates produces a complete feature vector for a point.
// Each feature resolves through the same tier order: live measurement,
// then matched region rule, then hardcoded default. Fetch failures are
// logged and never surfaced; the resolver always succeeds.
func ResolveFromCoordinates(ctx context.Context, lat, lon float64, rules RuleTable, fetcher EnvironmentalFetcher, logger *slog.Logger) ResolvedFeatures {
	rule, matched := rules.Match(lat, lon)

	resolved := ResolvedFeatures{
		Features:       DefaultFeatures(),
		Provenance:     defaultProvenance(),
		Latitude:       lat,
		Longitude:      lon,
		HasCoordinates: true,
	}
	if matched {
		resolved.Rule = rule
		resolved.Region = rule.Name
		applyRule(&resolved, rule)
	}

	if fetcher != nil {
		if mm, err := fetcher.RecentRainfallMM(ctx, lat, lon); err != nil {
			logger.Warn("rainfall lookup failed, using fallback tier",
				"lat", lat, "lon", lon,
				"tier", resolved.Provenance[FeatureRainfallIntensity],
				"error", err,
			)
		} else {
			resolved.Features.RainfallIntensity = mm
			resolved.Provenance[FeatureRainfallIntensity] = SourceLiveAPI
		}

		if m, err := fetcher.ElevationM(ctx, lat, lon); err != nil {
			logger.Warn("elevation lookup failed, using fallback tier",
				"lat", lat, "lon", lon,
				"tier", resolved.Provenance[FeatureElevationCategory],
				"error", err,
			)
		} else {
			resolved.Features.ElevationCategory = ElevationCategoryFromM(m)
			resolved.Provenance[FeatureElevationCategory] = SourceLiveAPI
		}
	}

	resolved.RainfallCategory = RainfallCategoryFromMM(resolved.Features.RainfallIntensity)
	return resolved
}

// ResolveManual wraps an explicitly supplied feature vector. Every feature
// is tagged as manual; no region rule or live lookup is consulted.
func ResolveManual(fv FeatureVector) ResolvedFeatures {
	prov := make(Provenance, len(CanonicalFeatures))
	for _, name := range CanonicalFeatures {
		prov[name] = SourceManual
	}
	return ResolvedFeatures{
		Features:         fv,
		Provenance:       prov,
		RainfallCategory: RainfallCategoryFromMM(fv.RainfallIntensity),
	}
}

func defaultProvenance() Provenance {
	prov := make(Provenance, len(CanonicalFeatures))
	for _, name := range CanonicalFeatures {
		prov[name] = SourceDefault
	}
	return prov
}

// applyRule overwrites default-tier features with the rule's nominal values.
// Rule fields left empty in the artifact keep their defaults.
func applyRule(resolved *ResolvedFeatures, rule *RegionRule) {
	if rule.SoilType != "" {
		resolved.Features.SoilType = SoilType(rule.SoilType)
		resolved.Provenance[FeatureSoilType] = SourceRegionRule
	}
	if rule.ElevationCategory != "" {
		resolved.Features.ElevationCategory = ElevationCategory(rule.ElevationCategory)
		resolved.Provenance[FeatureElevationCategory] = SourceRegionRule
	}
	resolved.Features.RainfallIntensity = rule.RainfallIntensity
	resolved.Provenance[FeatureRainfallIntensity] = SourceRegionRule
	resolved.Features.FloodFrequency = rule.FloodFrequency
	resolved.Provenance[FeatureFloodFrequency] = SourceRegionRule
	resolved.Features.DistanceFromRiver = rule.DistanceFromRiver
	resolved.Provenance[FeatureDistanceFromRiver] = SourceRegionRule
}
