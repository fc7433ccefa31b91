package geometry

import (
	"github.com/spaghettifunk/tessera/engine/math"
)

// RawTriangle is one data row of a surf file: an identifier plus three corner
// coordinates in file order. Identifiers are not required to be unique or
// contiguous and are discarded after deduplication; cleaned output renumbers
// from 1.
type RawTriangle struct {
	ID    int64
	Verts [3]math.Vec3
}

// Face references three vertices in a Mesh vertex buffer.
type Face [3]uint32

// Mesh is an indexed triangle mesh: an ordered, deduplicated vertex buffer
// plus a face buffer of index triples into it. Every face holds exactly three
// in-bounds indices. Once a scene publishes a Mesh it is never mutated again.
type Mesh struct {
	Vertices []math.Vec3
	Faces    []Face
}

// Translate adds delta to every vertex. Coordinates only, topology is never
// touched.
func (m *Mesh) Translate(delta math.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(delta)
	}
}

// Extents returns the axis-aligned bounding box over all vertices. ok is
// false for a mesh without vertices.
func (m *Mesh) Extents() (math.Extents3D, bool) {
	if len(m.Vertices) == 0 {
		return math.Extents3D{}, false
	}
	e := math.NewExtentsAt(m.Vertices[0])
	for _, v := range m.Vertices[1:] {
		e = e.Extend(v)
	}
	return e, true
}

// SurfaceArea returns the summed area of all faces.
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, f := range m.Faces {
		total += math.TriangleAreaDoubled(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
	}
	return total * 0.5
}

// FaceNormals returns the unit normal of every face, in face order. Useful
// for checking orientation conventions after an axis flip.
func (m *Mesh) FaceNormals() []math.Vec3 {
	normals := make([]math.Vec3, len(m.Faces))
	for i, f := range m.Faces {
		normals[i] = math.TriangleNormal(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
	}
	return normals
}

// FaceCenters returns the centroid of every face, in face order. Together
// with FaceNormals this gives the anchor points orientation plots hang their
// normal arrows on.
func (m *Mesh) FaceCenters() []math.Vec3 {
	centers := make([]math.Vec3, len(m.Faces))
	for i, f := range m.Faces {
		c := m.Vertices[f[0]].Add(m.Vertices[f[1]]).Add(m.Vertices[f[2]])
		centers[i] = c.MulScalar(1.0 / 3.0)
	}
	return centers
}
