// Package geometry derives the component tree for a bridge design. The
// tree is the single source of truth for dimensions: the 2D renderer
// and the 3D exporter both consume it verbatim, so the two outputs can
// never disagree on a span or position.
package geometry

import (
	"fmt"

	"github.com/leohan123123/bridge-3D-AI1/design"
)

// Kind is the closed set of structural component types.
type Kind string

const (
	KindDeck       Kind = "deck"
	KindPier       Kind = "pier"
	KindFoundation Kind = "foundation"
)

// Primitive names the geometric shape of a component.
type Primitive string

const (
	// PrimitiveBox args are [length, depth, width] (X, Y, Z extents).
	PrimitiveBox Primitive = "BoxGeometry"
	// PrimitiveCylinder args are [radiusTop, radiusBottom, height, radialSegments].
	PrimitiveCylinder Primitive = "CylinderGeometry"
)

// Component is one dimensioned node of the tree. Position is the
// component's center in meters: X along the bridge axis, Y vertical,
// Z across the deck.
type Component struct {
	Name      string     `json:"name"`
	Kind      Kind       `json:"kind"`
	Primitive Primitive  `json:"primitive"`
	Args      []float64  `json:"args"`
	Position  [3]float64 `json:"position"`
	Error     string     `json:"error,omitempty"`
}

// Tree is the ordered component list for one design: always exactly one
// deck first, then piers, then foundations.
type Tree struct {
	DesignID   string      `json:"design_id"`
	Components []Component `json:"components"`
	Degraded   bool        `json:"degraded,omitempty"`
}

// Deck returns the tree's single deck component.
func (t Tree) Deck() Component {
	for _, c := range t.Components {
		if c.Kind == KindDeck {
			return c
		}
	}
	return Component{}
}

// Span returns the deck's primary dimension, the total bridge span.
func (t Tree) Span() float64 {
	d := t.Deck()
	if len(d.Args) == 0 {
		return 0
	}
	return d.Args[0]
}

// Substructure dimensioning. Pier height fixes the deck's elevation;
// foundations sit directly beneath each pier.
const (
	pierHeightM       = 10.0
	pierRadiusM       = 1.0
	pierSegments      = 32
	footingSideM      = 4.0
	footingHeightM    = 1.5
	degradedDeckSideM = 1.0
)

// Build derives the component tree for a design. Pure and
// deterministic: the same design always yields the same tree. A failed
// design yields a minimal, well-formed tree with a single annotated
// deck so downstream renderers never special-case failure.
func Build(d design.BridgeDesign) Tree {
	if d.Failed() {
		return Tree{
			DesignID: d.DesignID,
			Degraded: true,
			Components: []Component{{
				Name:      "deck",
				Kind:      KindDeck,
				Primitive: PrimitiveBox,
				Args:      []float64{degradedDeckSideM, degradedDeckSideM, degradedDeckSideM},
				Position:  [3]float64{0, 0, 0},
				Error:     d.MainGirder.Error,
			}},
		}
	}

	total := d.TotalSpan()
	depth := d.MainGirder.DepthM
	if depth <= 0 {
		depth = 2.0
	}
	width := d.BridgeWidth
	if width <= 0 {
		width = 12.0
	}

	deckCenterY := pierHeightM + depth/2

	comps := []Component{{
		Name:      "deck",
		Kind:      KindDeck,
		Primitive: PrimitiveBox,
		Args:      []float64{total, depth, width},
		Position:  [3]float64{0, deckCenterY, 0},
	}}

	// One pier per interior span boundary, so n segments get n-1 piers.
	// X positions are measured from the deck center.
	boundary := -total / 2
	for i := 0; i < len(d.SpanLengths)-1; i++ {
		boundary += d.SpanLengths[i]
		comps = append(comps, Component{
			Name:      fmt.Sprintf("pier_%d", i+1),
			Kind:      KindPier,
			Primitive: PrimitiveCylinder,
			Args:      []float64{pierRadiusM, pierRadiusM, pierHeightM, pierSegments},
			Position:  [3]float64{boundary, pierHeightM / 2, 0},
		})
	}

	for _, c := range comps {
		if c.Kind != KindPier {
			continue
		}
		comps = append(comps, Component{
			Name:      "foundation_" + c.Name[len("pier_"):],
			Kind:      KindFoundation,
			Primitive: PrimitiveBox,
			Args:      []float64{footingSideM, footingHeightM, footingSideM},
			Position:  [3]float64{c.Position[0], -footingHeightM / 2, 0},
		})
	}

	return Tree{DesignID: d.DesignID, Components: comps}
}
