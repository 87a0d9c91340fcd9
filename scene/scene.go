// Package scene exports a geometry tree as a 3D scene description for
// a client-side Three.js renderer. The description enumerates the
// tree's components with their geometric arguments verbatim, so the 3D
// view and the 2D drawing can never disagree on dimensions.
package scene

import (
	"github.com/google/uuid"

	"github.com/leohan123123/bridge-3D-AI1/geometry"
)

// Format names the scene encoding produced by this package.
const Format = "three.js"

// Material is a Three.js material spec for one component kind.
type Material struct {
	Type  string  `json:"type"`
	Color string  `json:"color"`
	Rough float64 `json:"roughness"`
}

// Object is one renderable scene node. Geometry type and args come
// straight from the geometry tree.
type Object struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Geometry string     `json:"geometry"`
	Args     []float64  `json:"args"`
	Position [3]float64 `json:"position"`
	Material Material   `json:"material"`
	Error    string     `json:"error,omitempty"`
}

// Setup holds camera and lighting parameters derived from the scene's
// overall size.
type Setup struct {
	CameraPosition   [3]float64 `json:"camera_position"`
	CameraFOV        float64    `json:"camera_fov"`
	BackgroundColor  string     `json:"background_color"`
	AmbientColor     string     `json:"ambient_light_color"`
	DirectionalColor string     `json:"directional_light_color"`
	LightPosition    [3]float64 `json:"directional_light_position"`
}

// SceneDescription is the full 3D export for one design. Objects carry
// the same dimensions as the source tree; Degraded mirrors the tree's
// failure flag.
type SceneDescription struct {
	DesignID string   `json:"design_id"`
	Setup    Setup    `json:"scene_setup"`
	Objects  []Object `json:"objects"`
	Degraded bool     `json:"degraded,omitempty"`
}

func materialFor(kind geometry.Kind) Material {
	switch kind {
	case geometry.KindPier:
		return Material{Type: "MeshStandardMaterial", Color: "0x888888", Rough: 0.7}
	case geometry.KindFoundation:
		return Material{Type: "MeshStandardMaterial", Color: "0x666666", Rough: 0.8}
	default:
		return Material{Type: "MeshStandardMaterial", Color: "0xcccccc", Rough: 0.5}
	}
}

// Export converts a geometry tree into a scene description. Pure and
// deterministic apart from the generated model id: geometry arguments
// and positions are copied from the tree without recomputation.
func Export(tree geometry.Tree) (modelID string, desc SceneDescription, format string) {
	modelID = uuid.NewString()

	objects := make([]Object, 0, len(tree.Components))
	for _, c := range tree.Components {
		args := make([]float64, len(c.Args))
		copy(args, c.Args)
		objects = append(objects, Object{
			Name:     c.Name,
			Kind:     string(c.Kind),
			Geometry: string(c.Primitive),
			Args:     args,
			Position: c.Position,
			Material: materialFor(c.Kind),
			Error:    c.Error,
		})
	}

	span := tree.Span()
	desc = SceneDescription{
		DesignID: tree.DesignID,
		Setup: Setup{
			// Camera backs off proportionally to the span so the whole
			// structure is in frame.
			CameraPosition:   [3]float64{span * 0.3, span * 0.4, span * 0.8},
			CameraFOV:        75,
			BackgroundColor:  "0xf0f0f0",
			AmbientColor:     "0x404040",
			DirectionalColor: "0xffffff",
			LightPosition:    [3]float64{50, 50, 50},
		},
		Objects:  objects,
		Degraded: tree.Degraded,
	}
	return modelID, desc, Format
}
