package drawing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leohan123123/bridge-3D-AI1/design"
	"github.com/leohan123123/bridge-3D-AI1/geometry"
)

func testTree(spans []float64) geometry.Tree {
	return geometry.Build(design.BridgeDesign{
		DesignID:    "d-draw",
		BridgeType:  "Continuous Beam Bridge",
		SpanLengths: spans,
		BridgeWidth: 17.0,
		MainGirder:  design.Girder{Type: "I-Girder", DepthM: 2.5},
	})
}

func TestRenderWellFormed(t *testing.T) {
	id, svg := Render(testTree([]float64{50, 50}))

	if id == "" {
		t.Error("drawing id must be set")
	}
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("markup must start with the svg root tag, got %q", svg[:min(40, len(svg))])
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("markup must close the svg root tag")
	}
	if !strings.Contains(svg, "d-draw") {
		t.Error("title block must reference the design id")
	}
}

func TestRenderSpanAnnotation(t *testing.T) {
	tests := []struct {
		spans []float64
		want  string
	}{
		{[]float64{100}, "Span = 100.0 m"},
		{[]float64{50, 50}, "Span = 100.0 m"},
		{[]float64{30.25, 30.25}, "Span = 60.5 m"},
	}
	for _, tt := range tests {
		_, svg := Render(testTree(tt.spans))
		if !strings.Contains(svg, tt.want) {
			t.Errorf("spans %v: markup missing annotation %q", tt.spans, tt.want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	tree := testTree([]float64{60, 60, 60})
	_, a := Render(tree)
	_, b := Render(tree)
	if a != b {
		t.Error("identical trees must render identical markup")
	}
}

func TestRenderComponentCount(t *testing.T) {
	tree := testTree([]float64{60, 60, 60}) // 1 deck, 2 piers, 2 foundations
	_, svg := Render(tree)
	if got := strings.Count(svg, "<rect"); got != 6 { // 5 components + title block
		t.Errorf("rect count = %d, want 6", got)
	}
}

func TestRenderDegradedTree(t *testing.T) {
	tree := geometry.Build(design.BridgeDesign{
		DesignID:    "d-fail",
		BridgeType:  design.FailureBridgeType,
		SpanLengths: []float64{0},
		MainGirder:  design.Girder{Error: "providers <exhausted>"},
	})

	_, svg := Render(tree)
	if !strings.HasPrefix(svg, "<svg") {
		t.Error("degraded trees still render a well-formed document")
	}
	if !strings.Contains(svg, "Analysis failed") {
		t.Error("degraded deck annotation missing from markup")
	}
	if strings.Contains(svg, "<exhausted>") {
		t.Error("annotation text must be XML-escaped")
	}
	if strings.Contains(svg, "Span =") {
		t.Error("zero-span degraded tree must not carry a span dimension")
	}
}

func TestRenderScalesLongSpans(t *testing.T) {
	// A 600 m bridge must still fit the fixed canvas.
	spans := make([]float64, 10)
	for i := range spans {
		spans[i] = 60
	}
	_, svg := Render(testTree(spans))
	if !strings.Contains(svg, "Span = 600.0 m") {
		t.Error("long span annotation missing")
	}
	for _, line := range strings.Split(svg, "\n") {
		var x, y, w, h float64
		if n, _ := fmt.Sscanf(strings.TrimSpace(line), `<rect x="%f" y="%f" width="%f" height="%f"`, &x, &y, &w, &h); n == 4 {
			if x < 0 || x+w > 800 {
				t.Errorf("rect overflows canvas horizontally: %s", strings.TrimSpace(line))
			}
		}
	}
}
