package domain

// AdjustForRegion reweights an attribution map by how far the resolved
// features deviate from the matched region's nominal values, then
// renormalizes. With no matched rule, or an empty map, the input comes back
// unchanged. Scaling factors saturate at per-feature caps (or floors for
// the one down-weighting case) before renormalization.
func AdjustForRegion(m AttributionMap, fv FeatureVector, rule *RegionRule) AttributionMap {
	if rule == nil || len(m) == 0 {
		return m
	}

	out := make(AttributionMap, len(m))
	for k, w := range m {
		out[k] = w
	}

	nominalRain := rule.RainfallIntensity
	if nominalRain < 1.0 {
		nominalRain = 1.0
	}
	rainRatio := fv.RainfallIntensity / nominalRain
	if rainRatio < 0.5 || rainRatio > 1.5 {
		scaleCapped(out, FeatureRainfallIntensity, 1.4, 0.40)
	}

	// Flood frequency and distance ratios guard against zero nominals the
	// same way rainfall does, so a sparse rule never divides by zero.
	nominalFlood := rule.FloodFrequency
	if nominalFlood < 1.0 {
		nominalFlood = 1.0
	}
	floodRatio := fv.FloodFrequency / nominalFlood
	if floodRatio > 1.5 {
		scaleCapped(out, FeatureFloodFrequency, 1.3, 0.35)
	} else if floodRatio > 0.8 {
		scaleFloored(out, FeatureFloodFrequency, 0.8, 0.05)
	}

	nominalDist := rule.DistanceFromRiver
	if nominalDist < 1.0 {
		nominalDist = 1.0
	}
	if fv.DistanceFromRiver < 1.0 {
		scaleCapped(out, FeatureDistanceFromRiver, 1.5, 0.40)
	} else if fv.DistanceFromRiver/nominalDist < 0.3 {
		scaleCapped(out, FeatureDistanceFromRiver, 1.2, 0.35)
	}

	if rule.ElevationCategory != "" && ElevationCategory(rule.ElevationCategory) != fv.ElevationCategory {
		scaleCapped(out, FeatureElevationCategory, 1.3, 0.35)
	}

	if rule.SoilType != "" && SoilType(rule.SoilType) != fv.SoilType {
		scaleCapped(out, FeatureSoilType, 1.2, 0.40)
	}

	adjusted := out.Normalize()
	if len(adjusted) == 0 {
		// Scalings degenerated; keep the unmodified input rather than fail.
		return m
	}
	return adjusted
}

func scaleCapped(m AttributionMap, key string, factor, cap float64) {
	w, ok := m[key]
	if !ok {
		return
	}
	w *= factor
	if w > cap {
		w = cap
	}
	m[key] = w
}

func scaleFloored(m AttributionMap, key string, factor, floor float64) {
	w, ok := m[key]
	if !ok {
		return
	}
	w *= factor
	if w < floor {
		w = floor
	}
	m[key] = w
}
