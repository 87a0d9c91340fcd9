package analysis

import (
	"fmt"
	"strings"
)

const extractionPromptTemplate = `Analyze the following user requirements for a bridge design and extract key parameters.
User Requirements: "%s"

Return the parameters as a JSON object with the following keys (use null or "" when not found):
- bridge_type_preference (e.g. "beam", "arch", "suspension", "cable-stayed", "prestressed concrete continuous girder")
- span_length_description (e.g. "long river crossing", "approx 100m")
- estimated_span_meters (number, the total span in meters if stated or inferable)
- load_requirements (e.g. "heavy vehicles", "pedestrian only", "railway")
- site_terrain (e.g. "flat", "mountainous", "urban", "over water")
- specific_materials (e.g. "steel", "prestressed concrete")
- budget_constraints (e.g. "low budget", "no limit")
- aesthetic_preferences (e.g. "modern look", "classic design")
- environmental_factors (e.g. "high winds", "seismic zone 8", "corrosive environment")
- road_lanes_description (e.g. "four lanes", "two lanes with pedestrian walkway", "双向四车道")

JSON Output:`

// BuildExtractionPrompt renders the parameter extraction prompt for the
// given requirement text. Embedded quotes are flattened so the prompt
// framing survives arbitrary input.
func BuildExtractionPrompt(text string) string {
	clean := strings.ReplaceAll(text, `"`, `'`)
	return fmt.Sprintf(extractionPromptTemplate, clean)
}
