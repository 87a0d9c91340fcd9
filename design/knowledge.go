package design

import (
	"math"
	"strings"
)

// Standard roadway geometry used for width derivation.
const (
	laneWidthM           = 3.5
	wideShoulderWidthM   = 3.0 // four lanes and up: shoulders plus median
	narrowShoulderWidthM = 1.5
	defaultBridgeWidthM  = 12.0
	defaultSpanM         = 50.0
	maxSimpleSegmentM    = 60.0
)

// normalizeBridgeType maps a free-text bridge type preference onto a
// canonical label. Matching is keyword based and tolerates both English
// and Chinese terms; with no recognizable keyword it falls back to
// "Beam Bridge".
func normalizeBridgeType(preference, materials string) string {
	pref := strings.ToLower(preference)
	mats := strings.ToLower(materials)

	var base string
	switch {
	case strings.Contains(pref, "cable-stayed"), strings.Contains(pref, "cable stayed"),
		strings.Contains(pref, "斜拉"):
		base = "Cable-Stayed Bridge"
	case strings.Contains(pref, "suspension"), strings.Contains(pref, "悬索"):
		base = "Suspension Bridge"
	case strings.Contains(pref, "arch"), strings.Contains(pref, "拱"):
		base = "Arch Bridge"
	case strings.Contains(pref, "truss"), strings.Contains(pref, "桁架"):
		base = "Truss Bridge"
	default:
		base = "Beam Bridge"
	}

	if base == "Beam Bridge" {
		if strings.Contains(pref, "continuous") || strings.Contains(pref, "连续") {
			base = "Continuous " + base
		}
	}

	prestressed := strings.Contains(pref, "prestress") || strings.Contains(pref, "psc") ||
		strings.Contains(pref, "预应力") ||
		strings.Contains(mats, "prestress") || strings.Contains(mats, "预应力")
	concrete := strings.Contains(pref, "concrete") || strings.Contains(pref, "混凝土") ||
		strings.Contains(mats, "concrete") || strings.Contains(mats, "混凝土")

	if prestressed {
		if concrete {
			base = "Prestressed Concrete " + strings.Replace(base, "Beam Bridge", "Girder Bridge", 1)
		} else {
			base = "Prestressed " + base
		}
	}
	return base
}

// impliedMaterials returns the material table a bridge type label
// implies. Every keyword the label textually implies (prestress,
// concrete, steel) appears as a substring of some value.
func impliedMaterials(bridgeType, materialHints string) map[string]string {
	lt := strings.ToLower(bridgeType)
	lh := strings.ToLower(materialHints)

	m := map[string]string{
		"concrete_grade":      "C40/50 concrete",
		"steel_reinforcement": "Fe500D",
	}

	if strings.Contains(lt, "prestress") {
		m["prestressing_steel"] = "High-tensile prestressing strands Y1860S7"
		// The concrete girder wording only applies when the label or
		// hints actually name concrete; a prestressed steel or arch
		// design keeps its own superstructure material.
		if strings.Contains(lt, "concrete") || strings.Contains(lh, "concrete") || strings.Contains(lh, "混凝土") {
			m["main_girder_material"] = "Prestressed concrete"
		}
	}

	steel := strings.Contains(lt, "steel") || strings.Contains(lh, "steel") || strings.Contains(lh, "钢")
	if steel {
		m["structural_steel_grade"] = "Q355 structural steel"
		if _, ok := m["main_girder_material"]; !ok {
			m["main_girder_material"] = "Structural steel"
		}
		// A pure steel superstructure carries no concrete girder grade.
		if !strings.Contains(lt, "concrete") && !strings.Contains(lh, "concrete") && !strings.Contains(lh, "混凝土") {
			delete(m, "concrete_grade")
			m["deck_concrete"] = "C40/50 concrete deck slab"
		}
	}

	if _, ok := m["main_girder_material"]; !ok {
		m["main_girder_material"] = "Reinforced concrete"
	}
	return m
}

// parseLaneCount extracts a lane count (2/4/6/8) from a free-text lane
// description in English or Chinese. Returns 0 when unrecognized.
func parseLaneCount(desc string) int {
	d := strings.ToLower(desc)
	if d == "" {
		return 0
	}
	switch {
	case strings.Contains(d, "8"), strings.Contains(d, "eight"), strings.Contains(d, "八"):
		return 8
	case strings.Contains(d, "6"), strings.Contains(d, "six"), strings.Contains(d, "六"):
		return 6
	case strings.Contains(d, "4"), strings.Contains(d, "four"), strings.Contains(d, "四"):
		return 4
	case strings.Contains(d, "2"), strings.Contains(d, "two"), strings.Contains(d, "双"), strings.Contains(d, "两"):
		return 2
	}
	return 0
}

// deckWidth derives the deck width in meters from a lane count: lane
// width per lane plus shoulders/median. Unknown lane counts get the
// stock 12 m deck.
func deckWidth(lanes int) float64 {
	if lanes <= 0 {
		return defaultBridgeWidthM
	}
	shoulders := narrowShoulderWidthM
	if lanes >= 4 {
		shoulders = wideShoulderWidthM
	}
	return float64(lanes)*laneWidthM + shoulders
}

// MinWidthForLanes returns the absolute floor for a deck carrying the
// given lane count.
func MinWidthForLanes(lanes int) float64 {
	if lanes <= 0 {
		return 0
	}
	return float64(lanes) * laneWidthM
}

// segmentSpan splits a total span into segments: a single segment up to
// 60 m, above that equal segments of at most 60 m. Segments always sum
// exactly to the total.
func segmentSpan(total float64) []float64 {
	if total <= maxSimpleSegmentM {
		return []float64{total}
	}
	n := int(math.Ceil(total / maxSimpleSegmentM))
	seg := total / float64(n)
	spans := make([]float64, n)
	for i := range spans {
		spans[i] = seg
	}
	// Push rounding residue into the last segment so the sum is exact.
	var sum float64
	for _, s := range spans[:n-1] {
		sum += s
	}
	spans[n-1] = total - sum
	return spans
}

// girderDepth estimates the main girder depth from the governing span
// segment. Continuous girders run shallower than simple spans.
func girderDepth(maxSegment float64, bridgeType string) float64 {
	if maxSegment <= 0 {
		return 2.0
	}
	ratio := 18.0
	if strings.Contains(strings.ToLower(bridgeType), "continuous") {
		ratio = 21.5 // midpoint of the L/18 to L/25 continuous range
	}
	return math.Round(maxSegment/ratio*100) / 100
}

// spanToDepthRange returns the acceptable span-to-depth ratio band for
// a bridge type label, or ok=false when no band applies.
func spanToDepthRange(bridgeType string) (min, max float64, ok bool) {
	lt := strings.ToLower(bridgeType)
	switch {
	case strings.Contains(lt, "prestress") && strings.Contains(lt, "concrete"):
		return 18, 30, true
	case strings.Contains(lt, "steel") && (strings.Contains(lt, "beam") || strings.Contains(lt, "girder")):
		return 15, 25, true
	case strings.Contains(lt, "truss"):
		return 8, 12, true
	case strings.Contains(lt, "concrete") || strings.Contains(lt, "beam") || strings.Contains(lt, "girder"):
		return 10, 20, true
	}
	return 0, 0, false
}
