package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// extractJSON pulls a JSON object out of a raw model response, which
// may be fenced in markdown or surrounded by prose.
func extractJSON(raw string) (string, error) {
	if m := codeBlockRe.FindStringSubmatch(raw); len(m) > 1 {
		raw = m[1]
	}

	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "{") {
		return raw, nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1], nil
	}

	return "", fmt.Errorf("no JSON object found in response")
}

// rawRequirements tolerates models that return numbers as strings and
// strings as null.
type rawRequirements struct {
	BridgeTypePreference  string          `json:"bridge_type_preference"`
	SpanLengthDescription string          `json:"span_length_description"`
	EstimatedSpanMeters   json.RawMessage `json:"estimated_span_meters"`
	LoadRequirements      string          `json:"load_requirements"`
	SiteTerrain           string          `json:"site_terrain"`
	SpecificMaterials     string          `json:"specific_materials"`
	BudgetConstraints     string          `json:"budget_constraints"`
	AestheticPreferences  string          `json:"aesthetic_preferences"`
	EnvironmentalFactors  string          `json:"environmental_factors"`
	RoadLanesDescription  string          `json:"road_lanes_description"`
}

// parseRequirements decodes a model response into Requirements.
func parseRequirements(content string) (Requirements, error) {
	jsonStr, err := extractJSON(content)
	if err != nil {
		return Requirements{}, err
	}

	var raw rawRequirements
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return Requirements{}, fmt.Errorf("decoding extraction response: %w", err)
	}

	req := Requirements{
		BridgeTypePreference:  raw.BridgeTypePreference,
		SpanLengthDescription: raw.SpanLengthDescription,
		LoadRequirements:      raw.LoadRequirements,
		SiteTerrain:           raw.SiteTerrain,
		SpecificMaterials:     raw.SpecificMaterials,
		BudgetConstraints:     raw.BudgetConstraints,
		AestheticPreferences:  raw.AestheticPreferences,
		EnvironmentalFactors:  raw.EnvironmentalFactors,
		RoadLanesDescription:  raw.RoadLanesDescription,
	}
	req.EstimatedSpanMeters = parseSpanValue(raw.EstimatedSpanMeters)

	// Fall back to the first number in the span description when the
	// model left estimated_span_meters empty.
	if req.EstimatedSpanMeters == 0 && req.SpanLengthDescription != "" {
		if v, ok := FirstNumber(req.SpanLengthDescription); ok {
			req.EstimatedSpanMeters = v
		}
	}

	return req, nil
}

// parseSpanValue accepts a JSON number, a quoted number like "100m",
// or null.
func parseSpanValue(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, ok := FirstNumber(s); ok {
			return v
		}
	}
	return 0
}

var numberRe = regexp.MustCompile(`\d+\.?\d*`)

// FirstNumber extracts the first positive decimal number in a string.
func FirstNumber(s string) (float64, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
