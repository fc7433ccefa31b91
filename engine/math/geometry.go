package math

// TriangleAreaDoubled returns twice the area of the triangle (a, b, c) as the
// magnitude of the cross product of its edge vectors. Degeneracy filtering
// compares this value directly against the area epsilon, so the halving is
// never applied.
func TriangleAreaDoubled(a, b, c Vec3) float64 {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	return edge1.Cross(edge2).Length()
}

// TriangleNormal returns the unit face normal of the triangle (a, b, c)
// following the right-hand rule over its winding order. A degenerate triangle
// yields the zero vector.
//
// NOTE: This is a face normal. Smoothing across adjacent faces would be a
// separate pass if ever desired.
func TriangleNormal(a, b, c Vec3) Vec3 {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	cr := edge1.Cross(edge2)
	if cr.Length() < K_FLOAT_EPSILON {
		return NewVec3Zero()
	}
	return cr.Normalized()
}
