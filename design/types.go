// Package design synthesizes canonical bridge design records from
// structured requirement analyses and explicit numeric constraints.
package design

// FailureBridgeType is the sentinel bridge type carried by designs
// synthesized from a degraded analysis. It is distinguishable from any
// real bridge type label so callers can detect failure without
// inspecting errors.
const FailureBridgeType = "Error - Analysis Failed"

// Girder describes the main load-carrying member of a design. For a
// failed design, Error carries the analysis failure reason and the
// other fields are zero.
type Girder struct {
	Type   string  `json:"type,omitempty"`
	DepthM float64 `json:"depth_m,omitempty"`
	Error  string  `json:"error,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// Pier describes the substructure columns.
type Pier struct {
	Type  string `json:"type,omitempty"`
	Shape string `json:"shape,omitempty"`
	Error string `json:"error,omitempty"`
}

// Foundation describes the foundation concept.
type Foundation struct {
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

// BridgeDesign is the canonical, immutable output of synthesis. Span
// lengths are meters; their sum is the total span downstream geometry
// must reproduce. Materials maps a material category to a grade or
// description; for designs whose type implies prestressed concrete the
// map values contain both "prestress" and "concrete" substrings.
type BridgeDesign struct {
	DesignID    string            `json:"design_id"`
	BridgeType  string            `json:"bridge_type"`
	SpanLengths []float64         `json:"span_lengths"`
	BridgeWidth float64           `json:"bridge_width"`
	DesignLoad  string            `json:"design_load"`
	MainGirder  Girder            `json:"main_girder"`
	PierDesign  Pier              `json:"pier_design"`
	Foundation  Foundation        `json:"foundation"`
	Materials   map[string]string `json:"materials"`
	Notes       []string          `json:"notes,omitempty"`
	AnalysisID  string            `json:"analysis_id,omitempty"`
}

// Failed reports whether the design carries the analysis failure
// sentinel instead of real content.
func (d BridgeDesign) Failed() bool { return d.BridgeType == FailureBridgeType }

// TotalSpan returns the sum of all span segments in meters.
func (d BridgeDesign) TotalSpan() float64 {
	var total float64
	for _, s := range d.SpanLengths {
		total += s
	}
	return total
}
