package scene

import (
	"fmt"
	"strings"
)

// GenerateCode emits ready-to-run Three.js scene construction code from
// a scene description. The code is derived purely from the description:
// re-exporting the same design and regenerating always yields the same
// script.
func GenerateCode(desc SceneDescription) string {
	var b strings.Builder

	s := desc.Setup
	fmt.Fprintf(&b, `// Scene, camera, renderer
const scene = new THREE.Scene();
scene.background = new THREE.Color(%s);

const camera = new THREE.PerspectiveCamera(%s, window.innerWidth / window.innerHeight, 0.1, 10000);
camera.position.set(%s, %s, %s);
camera.lookAt(0, 0, 0);

const renderer = new THREE.WebGLRenderer({ antialias: true });
renderer.setSize(window.innerWidth, window.innerHeight);
document.body.appendChild(renderer.domElement);

// Lighting
const ambientLight = new THREE.AmbientLight(%s, 1.0);
scene.add(ambientLight);
const directionalLight = new THREE.DirectionalLight(%s, 0.8);
directionalLight.position.set(%s, %s, %s);
scene.add(directionalLight);

// Controls
const controls = new THREE.OrbitControls(camera, renderer.domElement);
controls.enableDamping = true;
controls.dampingFactor = 0.25;

`,
		s.BackgroundColor, num(s.CameraFOV),
		num(s.CameraPosition[0]), num(s.CameraPosition[1]), num(s.CameraPosition[2]),
		s.AmbientColor, s.DirectionalColor,
		num(s.LightPosition[0]), num(s.LightPosition[1]), num(s.LightPosition[2]))

	for _, o := range desc.Objects {
		writeObject(&b, o)
	}

	b.WriteString(`function animate() {
  requestAnimationFrame(animate);
  controls.update();
  renderer.render(scene, camera);
}
animate();
`)
	return b.String()
}

func writeObject(b *strings.Builder, o Object) {
	v := identifier(o.Name)
	fmt.Fprintf(b, "// --- %s ---\n", o.Name)
	fmt.Fprintf(b, "const %sGeom = new THREE.%s(%s);\n", v, o.Geometry, formatArgs(o.Args))
	fmt.Fprintf(b, "const %sMat = new THREE.%s({ color: %s, roughness: %s });\n",
		v, o.Material.Type, o.Material.Color, num(o.Material.Rough))
	fmt.Fprintf(b, "const %s = new THREE.Mesh(%sGeom, %sMat);\n", v, v, v)
	fmt.Fprintf(b, "%s.position.set(%s, %s, %s);\n", v, num(o.Position[0]), num(o.Position[1]), num(o.Position[2]))
	fmt.Fprintf(b, "scene.add(%s);\n\n", v)
}

// identifier turns a component name like "pier_1" into a JS-safe
// variable name.
func identifier(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "component"
	}
	return b.String()
}

func formatArgs(args []float64) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = num(a)
	}
	return strings.Join(parts, ", ")
}

// num renders a float the way hand-written JS would: no exponent, no
// trailing zeros.
func num(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
