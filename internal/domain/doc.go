// Package domain models land-parcel flood and erosion risk inference.
//
// # Feature conventions
//
// A parcel is described by five features, resolved per request:
//
//	soil_type            clay | silt | sand | sandy | loam
//	flood_frequency      recorded flood events, float ≥ 0
//	rainfall_intensity   millimeters over the prior 24 hours, float ≥ 0
//	elevation_category   low (<50 m) | mid (<300 m) | high (≥300 m)
//	distance_from_river  kilometers, float ≥ 0
//
// When a request carries coordinates instead of explicit features, each
// feature resolves through a fixed tier order: live measurement from the
// environmental APIs, then the matched region rule's nominal value, then a
// hardcoded default. The chosen tier is recorded per feature as provenance
// and surfaced in responses; it never influences inference itself.
//
// # Rainfall buckets
//
// 24-hour rainfall totals bucket as Light (<20 mm), Moderate (20–100 mm
// inclusive), or Heavy (>100 mm). The bucket appears in inferred features
// and parameterizes the rainfall explanation sentence.
//
// # Region rules
//
// Region rules are an ordered list of named bounding boxes with nominal
// environmental values, loaded once at startup from region_rules.json.
// Lookup is first-match in list order with inclusive bounds; the artifact's
// order is the priority scheme. A missing artifact degrades resolution to
// live-or-default tiers and is logged, not fatal.
//
// # Deterministic corrections
//
// After classification, a fixed-order rule engine may demote a High label
// (light rain at high elevation) or promote to High (heavy rain, frequent
// flooding, close to a river), adjusting confidence and emitting a note
// that is appended to the explanation.
package domain
