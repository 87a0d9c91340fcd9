package design

import (
	"math"
	"strings"
	"testing"

	"github.com/leohan123123/bridge-3D-AI1/analysis"
)

func okResult(req analysis.Requirements) analysis.Result {
	return analysis.Result{Requirements: req, Provider: "deepseek"}
}

func TestSynthesizeEndToEndScenario(t *testing.T) {
	// 100 m prestressed concrete continuous girder, four lanes, seismic 8.
	res := okResult(analysis.Requirements{
		BridgeTypePreference: "prestressed concrete continuous girder",
		SpanLengthDescription: "approx 100m",
		EstimatedSpanMeters:  100,
		SpecificMaterials:    "prestressed concrete",
		EnvironmentalFactors: "seismic zone 8",
		RoadLanesDescription: "four lanes",
	})
	d := Synthesize(res, Constraints{SpanMeters: 100.0})

	if d.Failed() {
		t.Fatalf("unexpected failed design: %+v", d)
	}
	if math.Abs(d.TotalSpan()-100.0) > 0.5 {
		t.Errorf("TotalSpan = %v, want 100 +- 0.5", d.TotalSpan())
	}
	if d.BridgeWidth < MinWidthForLanes(4) {
		t.Errorf("BridgeWidth = %v, below four-lane minimum %v", d.BridgeWidth, MinWidthForLanes(4))
	}
	joined := strings.ToLower(strings.Join(materialValues(d), " "))
	if !strings.Contains(joined, "prestress") || !strings.Contains(joined, "concrete") {
		t.Errorf("materials %v must mention both prestress and concrete", d.Materials)
	}
	if !strings.Contains(d.BridgeType, "Prestressed Concrete") {
		t.Errorf("BridgeType = %q", d.BridgeType)
	}
	if d.DesignID == "" {
		t.Error("DesignID must be set")
	}
}

func materialValues(d BridgeDesign) []string {
	vals := make([]string, 0, len(d.Materials))
	for _, v := range d.Materials {
		vals = append(vals, v)
	}
	return vals
}

func TestSynthesizeDegraded(t *testing.T) {
	d := Synthesize(analysis.Degraded("all analysis providers failed"), Constraints{})

	if !d.Failed() {
		t.Fatal("design from degraded analysis must be failure-flagged")
	}
	if d.BridgeType != FailureBridgeType {
		t.Errorf("BridgeType = %q, want %q", d.BridgeType, FailureBridgeType)
	}
	if d.MainGirder.Error == "" {
		t.Error("MainGirder.Error must carry the failure reason")
	}
	if len(d.SpanLengths) != 1 || d.SpanLengths[0] != 0 {
		t.Errorf("SpanLengths = %v, want [0]", d.SpanLengths)
	}
	if d.DesignID == "" {
		t.Error("failed designs still get an id")
	}
}

func TestSpanResolutionPrecedence(t *testing.T) {
	tests := []struct {
		name string
		c    Constraints
		req  analysis.Requirements
		want float64
	}{
		{"explicit wins over estimate", Constraints{SpanMeters: 80}, analysis.Requirements{EstimatedSpanMeters: 120}, 80},
		{"estimate when no constraint", Constraints{}, analysis.Requirements{EstimatedSpanMeters: 120}, 120},
		{"description fallback", Constraints{}, analysis.Requirements{SpanLengthDescription: "about 35m over a road"}, 35},
		{"default when nothing", Constraints{}, analysis.Requirements{}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Synthesize(okResult(tt.req), tt.c)
			if math.Abs(d.TotalSpan()-tt.want) > 0.5 {
				t.Errorf("TotalSpan = %v, want %v", d.TotalSpan(), tt.want)
			}
		})
	}
}

func TestSegmentSpan(t *testing.T) {
	tests := []struct {
		total    float64
		segments int
	}{
		{30, 1},
		{60, 1},
		{61, 2},
		{100, 2},
		{150, 3},
		{200, 4},
	}
	for _, tt := range tests {
		spans := segmentSpan(tt.total)
		if len(spans) != tt.segments {
			t.Errorf("segmentSpan(%v) has %d segments, want %d", tt.total, len(spans), tt.segments)
		}
		var sum float64
		for _, s := range spans {
			sum += s
		}
		if sum != tt.total {
			t.Errorf("segmentSpan(%v) sums to %v, want exact total", tt.total, sum)
		}
		for _, s := range spans {
			if s > maxSimpleSegmentM+1e-9 {
				t.Errorf("segmentSpan(%v) has segment %v above %v", tt.total, s, maxSimpleSegmentM)
			}
		}
	}
}

func TestNormalizeBridgeType(t *testing.T) {
	tests := []struct {
		pref, mats, want string
	}{
		{"beam", "", "Beam Bridge"},
		{"continuous girder", "", "Continuous Beam Bridge"},
		{"arch", "", "Arch Bridge"},
		{"cable-stayed", "", "Cable-Stayed Bridge"},
		{"suspension", "", "Suspension Bridge"},
		{"truss", "", "Truss Bridge"},
		{"prestressed concrete continuous beam", "", "Prestressed Concrete Continuous Girder Bridge"},
		{"psc girder", "concrete", "Prestressed Concrete Girder Bridge"},
		{"", "", "Beam Bridge"},
		{"预应力混凝土连续梁", "", "Prestressed Concrete Continuous Girder Bridge"},
		{"斜拉桥", "", "Cable-Stayed Bridge"},
		{"悬索桥", "", "Suspension Bridge"},
		{"拱桥", "", "Arch Bridge"},
	}
	for _, tt := range tests {
		if got := normalizeBridgeType(tt.pref, tt.mats); got != tt.want {
			t.Errorf("normalizeBridgeType(%q, %q) = %q, want %q", tt.pref, tt.mats, got, tt.want)
		}
	}
}

func TestImpliedMaterialsGirder(t *testing.T) {
	tests := []struct {
		bridgeType, hints, wantGirder string
	}{
		{"Prestressed Concrete Continuous Girder Bridge", "", "Prestressed concrete"},
		{"Prestressed Girder Bridge", "concrete", "Prestressed concrete"},
		{"Prestressed Arch Bridge", "", "Reinforced concrete"},
		{"Prestressed Arch Bridge", "steel", "Structural steel"},
		{"Beam Bridge", "", "Reinforced concrete"},
	}
	for _, tt := range tests {
		m := impliedMaterials(tt.bridgeType, tt.hints)
		if got := m["main_girder_material"]; got != tt.wantGirder {
			t.Errorf("impliedMaterials(%q, %q) girder = %q, want %q", tt.bridgeType, tt.hints, got, tt.wantGirder)
		}
		if strings.Contains(strings.ToLower(tt.bridgeType), "prestress") && m["prestressing_steel"] == "" {
			t.Errorf("impliedMaterials(%q, %q) missing prestressing steel", tt.bridgeType, tt.hints)
		}
	}
}

func TestLaneWidths(t *testing.T) {
	tests := []struct {
		desc  string
		lanes int
		width float64
	}{
		{"two lanes", 2, 2*3.5 + 1.5},
		{"four lanes", 4, 4*3.5 + 3.0},
		{"双向四车道", 4, 4*3.5 + 3.0},
		{"six lanes each way", 6, 6*3.5 + 3.0},
		{"eight lanes", 8, 8*3.5 + 3.0},
		{"", 0, 12.0},
		{"a wide deck", 0, 12.0},
	}
	for _, tt := range tests {
		lanes := parseLaneCount(tt.desc)
		if lanes != tt.lanes {
			t.Errorf("parseLaneCount(%q) = %d, want %d", tt.desc, lanes, tt.lanes)
		}
		if w := deckWidth(lanes); w != tt.width {
			t.Errorf("deckWidth(%d) = %v, want %v", lanes, w, tt.width)
		}
		if lanes > 0 && tt.width < MinWidthForLanes(lanes) {
			t.Errorf("width %v below lane minimum %v", tt.width, MinWidthForLanes(lanes))
		}
	}
}

func TestVerifyNotes(t *testing.T) {
	t.Run("seismic high intensity", func(t *testing.T) {
		d := Synthesize(okResult(analysis.Requirements{
			EstimatedSpanMeters:  100,
			EnvironmentalFactors: "seismic zone 8",
		}), Constraints{})
		if !hasNoteContaining(d.Notes, "seismic intensity 8") {
			t.Errorf("notes %v missing seismic intensity advisory", d.Notes)
		}
	})

	t.Run("seismic without level", func(t *testing.T) {
		d := Synthesize(okResult(analysis.Requirements{
			EstimatedSpanMeters:  40,
			EnvironmentalFactors: "earthquake prone area",
		}), Constraints{})
		if !hasNoteContaining(d.Notes, "intensity level not stated") {
			t.Errorf("notes %v missing unstated-intensity advisory", d.Notes)
		}
	})

	t.Run("no environmental factors", func(t *testing.T) {
		d := Synthesize(okResult(analysis.Requirements{EstimatedSpanMeters: 40}), Constraints{})
		if hasNoteContaining(d.Notes, "seismic") {
			t.Errorf("unexpected seismic note in %v", d.Notes)
		}
	})

	t.Run("span to depth out of range", func(t *testing.T) {
		n := checkSpanToDepth(60, 1.0, "Prestressed Concrete Girder Bridge")
		if n == "" {
			t.Error("ratio 60 should be flagged for a prestressed concrete girder (range 18-30)")
		}
		if checkSpanToDepth(60, 2.5, "Prestressed Concrete Girder Bridge") != "" {
			t.Error("ratio 24 is inside the range and should not be flagged")
		}
	})
}

func hasNoteContaining(notes []string, substr string) bool {
	for _, n := range notes {
		if strings.Contains(n, substr) {
			return true
		}
	}
	return false
}

func TestGirderDepth(t *testing.T) {
	if d := girderDepth(100, "Beam Bridge"); math.Abs(d-100.0/18) > 0.01 {
		t.Errorf("simple span depth = %v, want ~%v", d, 100.0/18)
	}
	if d := girderDepth(100, "Continuous Beam Bridge"); math.Abs(d-100.0/21.5) > 0.01 {
		t.Errorf("continuous depth = %v, want ~%v", d, 100.0/21.5)
	}
	if d := girderDepth(0, "Beam Bridge"); d != 2.0 {
		t.Errorf("zero-span depth = %v, want 2.0 fallback", d)
	}
}
