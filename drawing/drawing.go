// Package drawing renders a geometry tree as a 2D SVG elevation view.
// Rendering is deterministic: the same tree always produces the same
// markup, so repeated requests for one design are reproducible.
package drawing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/leohan123123/bridge-3D-AI1/geometry"
)

const (
	canvasWidth  = 800.0
	canvasHeight = 600.0
	margin       = 80.0
)

// Render produces the elevation drawing for a tree. The returned markup
// is a self-contained SVG document: root <svg> element, bounding box
// computed from component extents, one shape per component, and a
// dimension line annotating the total span in meters.
func Render(tree geometry.Tree) (drawingID, svg string) {
	drawingID = uuid.NewString()

	minX, maxX, minY, maxY := extents(tree)
	worldW := maxX - minX
	worldH := maxY - minY
	if worldW <= 0 {
		worldW = 1
	}
	if worldH <= 0 {
		worldH = 1
	}

	// Uniform scale so the whole structure fits inside the margins.
	scale := (canvasWidth - 2*margin) / worldW
	if s := (canvasHeight - 2*margin) / worldH; s < scale {
		scale = s
	}

	// World X grows right, world Y grows up; SVG Y grows down.
	toX := func(x float64) float64 { return margin + (x-minX)*scale }
	toY := func(y float64) float64 { return canvasHeight - margin - (y-minY)*scale }

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`,
		canvasWidth, canvasHeight, canvasWidth, canvasHeight)
	b.WriteString("\n")
	fmt.Fprintf(&b, `  <title>Bridge Elevation %s</title>`+"\n", escapeText(tree.DesignID))

	for _, c := range tree.Components {
		writeComponent(&b, c, toX, toY, scale)
	}

	writeSpanDimension(&b, tree, toX, toY)
	writeTitleBlock(&b, tree)

	b.WriteString("</svg>")
	return drawingID, b.String()
}

// extents computes the world-space bounding box over every component's
// elevation footprint (X along the bridge, Y vertical).
func extents(tree geometry.Tree) (minX, maxX, minY, maxY float64) {
	first := true
	for _, c := range tree.Components {
		w, h := elevationSize(c)
		x0 := c.Position[0] - w/2
		x1 := c.Position[0] + w/2
		y0 := c.Position[1] - h/2
		y1 := c.Position[1] + h/2
		if first {
			minX, maxX, minY, maxY = x0, x1, y0, y1
			first = false
			continue
		}
		if x0 < minX {
			minX = x0
		}
		if x1 > maxX {
			maxX = x1
		}
		if y0 < minY {
			minY = y0
		}
		if y1 > maxY {
			maxY = y1
		}
	}
	return minX, maxX, minY, maxY
}

// elevationSize projects a component onto the elevation plane:
// width along the bridge axis, height vertical.
func elevationSize(c geometry.Component) (w, h float64) {
	switch c.Primitive {
	case geometry.PrimitiveBox:
		if len(c.Args) >= 2 {
			return c.Args[0], c.Args[1]
		}
	case geometry.PrimitiveCylinder:
		if len(c.Args) >= 3 {
			return c.Args[0] * 2, c.Args[2]
		}
	}
	return 1, 1
}

func writeComponent(b *strings.Builder, c geometry.Component, toX, toY func(float64) float64, scale float64) {
	w, h := elevationSize(c)
	x := toX(c.Position[0] - w/2)
	y := toY(c.Position[1] + h/2)

	fill := "#b0b0b0"
	switch c.Kind {
	case geometry.KindPier:
		fill = "#888888"
	case geometry.KindFoundation:
		fill = "#666666"
	}

	fmt.Fprintf(b, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="#333" stroke-width="1"/>`+"\n",
		x, y, w*scale, h*scale, fill)

	if c.Error != "" {
		fmt.Fprintf(b, `  <text x="%.2f" y="%.2f" font-size="14" fill="#c00">%s</text>`+"\n",
			x, y-8, escapeText("Analysis failed: "+c.Error))
	}
}

// writeSpanDimension draws the dimension line under the deck annotated
// with the total span, one decimal.
func writeSpanDimension(b *strings.Builder, tree geometry.Tree, toX, toY func(float64) float64) {
	deck := tree.Deck()
	span := tree.Span()
	if tree.Degraded || span <= 0 {
		return
	}
	x0 := toX(deck.Position[0] - span/2)
	x1 := toX(deck.Position[0] + span/2)
	y := toY(0) + 30

	fmt.Fprintf(b, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333" stroke-width="1"/>`+"\n", x0, y, x1, y)
	fmt.Fprintf(b, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333" stroke-width="1"/>`+"\n", x0, y-5, x0, y+5)
	fmt.Fprintf(b, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333" stroke-width="1"/>`+"\n", x1, y-5, x1, y+5)
	fmt.Fprintf(b, `  <text x="%.2f" y="%.2f" font-size="14" text-anchor="middle">Span = %.1f m</text>`+"\n",
		(x0+x1)/2, y-8, span)
}

// writeTitleBlock stamps the drawing. Keyed to the design id, never the
// wall clock, so identical trees produce byte-identical markup.
func writeTitleBlock(b *strings.Builder, tree geometry.Tree) {
	fmt.Fprintf(b, `  <rect x="%.2f" y="%.2f" width="300" height="48" fill="none" stroke="#333" stroke-width="1"/>`+"\n",
		canvasWidth-320, canvasHeight-68)
	fmt.Fprintf(b, `  <text x="%.2f" y="%.2f" font-size="12">Bridge Elevation  1:%d</text>`+"\n",
		canvasWidth-310, canvasHeight-50, 500)
	fmt.Fprintf(b, `  <text x="%.2f" y="%.2f" font-size="10">Design %s</text>`+"\n",
		canvasWidth-310, canvasHeight-32, escapeText(tree.DesignID))
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
