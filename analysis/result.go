// Package analysis extracts structured bridge design requirements from
// free text via an ordered, failover list of LLM providers, with a
// fingerprint-keyed result cache in front.
package analysis

// Requirements is the structured output of requirement extraction.
// Fields mirror the extraction prompt; absent attributes stay empty.
type Requirements struct {
	BridgeTypePreference  string  `json:"bridge_type_preference"`
	SpanLengthDescription string  `json:"span_length_description"`
	EstimatedSpanMeters   float64 `json:"estimated_span_meters,omitempty"`
	LoadRequirements      string  `json:"load_requirements"`
	SiteTerrain           string  `json:"site_terrain"`
	SpecificMaterials     string  `json:"specific_materials"`
	BudgetConstraints     string  `json:"budget_constraints"`
	AestheticPreferences  string  `json:"aesthetic_preferences"`
	EnvironmentalFactors  string  `json:"environmental_factors"`
	RoadLanesDescription  string  `json:"road_lanes_description"`
}

// Result is the tagged outcome of an analysis: either a successful
// extraction attributed to a provider, or a terminal degraded value.
// It flows through synthesis as plain data; no stage boundary ever
// sees an analysis error as a Go error.
type Result struct {
	Requirements Requirements `json:"requirements"`
	Provider     string       `json:"provider"`          // backend that produced it, or "none"
	Failed       bool         `json:"failed"`            // true when every provider was exhausted
	Reason       string       `json:"reason,omitempty"`  // human-readable failure reason
	FromCache    bool         `json:"from_cache,omitempty"`
}

// Ok reports whether the result carries real extracted content.
func (r Result) Ok() bool { return !r.Failed }

// Degraded builds the terminal failure value returned when the whole
// provider list is exhausted. Never cached.
func Degraded(reason string) Result {
	return Result{Provider: "none", Failed: true, Reason: reason}
}
