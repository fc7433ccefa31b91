package geometry

import (
	m "math"
	"testing"

	"github.com/spaghettifunk/tessera/engine/math"
)

func TestMeshTranslate(t *testing.T) {
	mesh := quadMesh()
	mesh.Translate(math.Vec3{X: 10, Y: -2, Z: 0.5})

	if mesh.Vertices[0] != (math.Vec3{X: 10, Y: -2, Z: 0.5}) {
		t.Fatalf("vertex 0 = %v; want {10 -2 0.5}", mesh.Vertices[0])
	}
	if mesh.Vertices[2] != (math.Vec3{X: 11, Y: -1, Z: 0.5}) {
		t.Fatalf("vertex 2 = %v; want {11 -1 0.5}", mesh.Vertices[2])
	}
	if len(mesh.Faces) != 2 {
		t.Fatalf("faces = %d; want 2, translation must not touch topology", len(mesh.Faces))
	}
}

func TestMeshExtents(t *testing.T) {
	mesh := &Mesh{
		Vertices: []math.Vec3{{X: -1, Y: 2, Z: 3}, {X: 4, Y: -5, Z: 6}, {X: 0, Y: 0, Z: -7}},
	}

	e, ok := mesh.Extents()
	if !ok {
		t.Fatal("Extents() ok = false; want true")
	}
	if e.Min != (math.Vec3{X: -1, Y: -5, Z: -7}) || e.Max != (math.Vec3{X: 4, Y: 2, Z: 6}) {
		t.Fatalf("extents = [%v, %v]; want [{-1 -5 -7}, {4 2 6}]", e.Min, e.Max)
	}
}

func TestMeshExtentsEmpty(t *testing.T) {
	mesh := &Mesh{}
	if _, ok := mesh.Extents(); ok {
		t.Fatal("Extents() ok = true for an empty mesh; want false")
	}
}

func TestMeshSurfaceArea(t *testing.T) {
	mesh := quadMesh()
	// Two half-unit triangles tile the unit square.
	if got := mesh.SurfaceArea(); m.Abs(got-1.0) > 1e-15 {
		t.Fatalf("SurfaceArea() = %g; want 1.0", got)
	}
}

func TestMeshFaceCenters(t *testing.T) {
	mesh := &Mesh{
		Vertices: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}},
		Faces:    []Face{{0, 1, 2}},
	}

	centers := mesh.FaceCenters()
	if len(centers) != 1 {
		t.Fatalf("centers = %d; want 1", len(centers))
	}
	if centers[0] != (math.Vec3{X: 1, Y: 1, Z: 0}) {
		t.Fatalf("center = %v; want {1 1 0}", centers[0])
	}
}
