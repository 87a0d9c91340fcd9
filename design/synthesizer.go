package design

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/leohan123123/bridge-3D-AI1/analysis"
)

// Constraints are explicit, user-supplied values. A non-zero constraint
// always overrides the corresponding extracted estimate; extracted
// values only fill gaps constraints leave open.
type Constraints struct {
	SpanMeters float64 `json:"span_preference_meters,omitempty"`
	LaneCount  int     `json:"lane_count,omitempty"`
	BridgeType string  `json:"bridge_type_preference,omitempty"`
	LoadClass  string  `json:"load_class,omitempty"`
}

// Synthesize merges a requirement analysis with explicit constraints
// into a canonical BridgeDesign. It is total over both analysis
// variants: a degraded analysis yields a failure-flagged design rather
// than an error.
func Synthesize(res analysis.Result, c Constraints) BridgeDesign {
	if res.Failed {
		return failedDesign(res.Reason)
	}
	req := res.Requirements

	typePref := c.BridgeType
	if typePref == "" {
		typePref = req.BridgeTypePreference
	}
	bridgeType := normalizeBridgeType(typePref, req.SpecificMaterials)

	span := resolveSpan(c, req)
	spans := segmentSpan(span)

	lanes := c.LaneCount
	if lanes <= 0 {
		lanes = parseLaneCount(req.RoadLanesDescription)
	}
	width := deckWidth(lanes)

	load := c.LoadClass
	if load == "" {
		load = req.LoadRequirements
	}
	if load == "" {
		load = "Standard Highway Load"
	}

	maxSeg := spans[0]
	for _, s := range spans {
		if s > maxSeg {
			maxSeg = s
		}
	}

	d := BridgeDesign{
		DesignID:    uuid.NewString(),
		BridgeType:  bridgeType,
		SpanLengths: spans,
		BridgeWidth: width,
		DesignLoad:  load,
		MainGirder: Girder{
			Type:   girderType(bridgeType),
			DepthM: girderDepth(maxSeg, bridgeType),
		},
		PierDesign: Pier{Type: "Reinforced Concrete Column", Shape: "Circular"},
		Foundation: Foundation{Type: "Spread Footing or Piles (site dependent)"},
		Materials:  impliedMaterials(bridgeType, req.SpecificMaterials),
	}
	d.Notes = Verify(d, req)

	slog.Info("design synthesized",
		"design_id", d.DesignID, "bridge_type", d.BridgeType,
		"total_span_m", d.TotalSpan(), "width_m", d.BridgeWidth,
		"segments", len(d.SpanLengths))
	return d
}

// failedDesign builds the sentinel design carried through the pipeline
// when analysis was exhausted. Downstream geometry and rendering stay
// total over it.
func failedDesign(reason string) BridgeDesign {
	if reason == "" {
		reason = "analysis failed"
	}
	return BridgeDesign{
		DesignID:    uuid.NewString(),
		BridgeType:  FailureBridgeType,
		SpanLengths: []float64{0},
		BridgeWidth: 0,
		DesignLoad:  "N/A",
		MainGirder:  Girder{Error: reason},
		PierDesign:  Pier{Error: reason},
		Foundation:  Foundation{Error: reason},
		Materials:   map[string]string{"error": reason},
	}
}

// resolveSpan picks the total span: explicit constraint first, then the
// extracted estimate, then the first number in the span description,
// then the 50 m default.
func resolveSpan(c Constraints, req analysis.Requirements) float64 {
	if c.SpanMeters > 0 {
		return c.SpanMeters
	}
	if req.EstimatedSpanMeters > 0 {
		return req.EstimatedSpanMeters
	}
	if v, ok := analysis.FirstNumber(req.SpanLengthDescription); ok {
		return v
	}
	slog.Info("no span information available, using default", "default_m", defaultSpanM)
	return defaultSpanM
}

// girderType names the main girder for a resolved bridge type label.
func girderType(bridgeType string) string {
	lt := strings.ToLower(bridgeType)
	switch {
	case strings.Contains(lt, "prestress") && strings.Contains(lt, "continuous"):
		return "Prestressed Concrete Continuous Girder"
	case strings.Contains(lt, "prestress"):
		return "Prestressed Concrete I-Girder"
	case strings.Contains(lt, "steel"):
		return "Steel I-Girder"
	case strings.Contains(lt, "truss"):
		return "Steel Truss"
	default:
		return "I-Girder"
	}
}

// Verify runs the advisory design checks: span-to-depth ratio,
// material/type compatibility, and seismic intensity handling. The
// returned notes are attached to the design and never fatal.
func Verify(d BridgeDesign, req analysis.Requirements) []string {
	var notes []string

	maxSeg := 0.0
	for _, s := range d.SpanLengths {
		if s > maxSeg {
			maxSeg = s
		}
	}
	if n := checkSpanToDepth(maxSeg, d.MainGirder.DepthM, d.BridgeType); n != "" {
		notes = append(notes, n)
	}
	notes = append(notes, checkMaterialCompatibility(d)...)
	if n := checkSeismic(req.EnvironmentalFactors); n != "" {
		notes = append(notes, n)
	}
	return notes
}

func checkSpanToDepth(span, depth float64, bridgeType string) string {
	if span <= 0 || depth <= 0 {
		return ""
	}
	min, max, ok := spanToDepthRange(bridgeType)
	if !ok {
		return ""
	}
	ratio := span / depth
	if ratio < min || ratio > max {
		return fmt.Sprintf("span-to-depth ratio %.1f outside typical range %.0f-%.0f for %s", ratio, min, max, bridgeType)
	}
	return ""
}

func checkMaterialCompatibility(d BridgeDesign) []string {
	lt := strings.ToLower(d.BridgeType)
	var all strings.Builder
	for _, v := range d.Materials {
		all.WriteString(strings.ToLower(v))
		all.WriteByte(' ')
	}
	mats := all.String()

	var notes []string
	if strings.Contains(lt, "prestress") {
		if !strings.Contains(mats, "prestress") {
			notes = append(notes, "bridge type implies prestressing but no prestressing material is specified")
		}
	}
	if strings.Contains(lt, "concrete") && !strings.Contains(mats, "concrete") {
		notes = append(notes, "bridge type implies concrete but no concrete grade is specified")
	}
	if d.TotalSpan() > 300 && strings.Contains(lt, "concrete") && !strings.Contains(lt, "prestress") {
		notes = append(notes, fmt.Sprintf("span of %.0f m is very large for a non-prestressed concrete bridge", d.TotalSpan()))
	}
	return notes
}

// checkSeismic extracts a numeric seismic intensity from the
// environmental factors text and flags high-intensity sites.
func checkSeismic(environmental string) string {
	le := strings.ToLower(environmental)
	if !strings.Contains(le, "seismic") && !strings.Contains(le, "earthquake") && !strings.Contains(le, "抗震") && !strings.Contains(le, "地震") {
		return ""
	}
	level, ok := analysis.FirstNumber(environmental)
	if !ok {
		return "seismic site conditions noted; intensity level not stated"
	}
	if level >= 7 {
		return fmt.Sprintf("seismic intensity %.0f: ductile reinforcement and seismic bearings recommended", level)
	}
	return fmt.Sprintf("seismic intensity %.0f noted", level)
}
