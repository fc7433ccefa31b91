package math

import (
	m "math"
)

const (
	/** @brief Smallest positive number where 1.0 + FLOAT_EPSILON != 1.0 */
	K_FLOAT_EPSILON float64 = 2.220446049250313e-16
)

/**
 * Note that these are here in order to prevent having to alias the
 * standard library math package everywhere.
 */
func kabs(x float64) float64 {
	return m.Abs(x)
}

func ksqrt(x float64) float64 {
	return m.Sqrt(x)
}

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @param z The z value.
 * @return A new 3-element vector.
 */
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

/**
 * @brief Creates and returns a 3-component vector with all components set to 0.0.
 */
func NewVec3Zero() Vec3 {
	return Vec3{0.0, 0.0, 0.0}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		v.X + other.X,
		v.Y + other.Y,
		v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		v.X - other.X,
		v.Y - other.Y,
		v.Z - other.Z}
}

func (v Vec3) MulScalar(scalar float64) Vec3 {
	return Vec3{
		v.X * scalar,
		v.Y * scalar,
		v.Z * scalar}
}

/**
 * @brief Returns the squared length of the provided vector.
 */
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec3) Length() float64 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Returns a normalized copy of the supplied vector. A vector shorter
 * than the float epsilon is returned unchanged instead of dividing by zero.
 */
func (v Vec3) Normalized() Vec3 {
	length := v.Length()
	if length < K_FLOAT_EPSILON {
		return v
	}
	return Vec3{
		v.X / length,
		v.Y / length,
		v.Z / length}
}

/**
 * @brief Returns the dot product between the provided vectors. Typically used
 * to calculate the difference in direction.
 */
func (v Vec3) Dot(other Vec3) float64 {
	p := 0.0
	p += v.X * other.X
	p += v.Y * other.Y
	p += v.Z * other.Z
	return p
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 * The cross product is a new vector which is orthoganal to both provided vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X}
}

/**
 * @brief Compares all elements of the two vectors and reports whether every
 * per-axis absolute difference is strictly below tolerance.
 *
 * @param other The vector to compare against.
 * @param tolerance The difference tolerance.
 * @return True if within tolerance on every axis; otherwise false.
 */
func (v Vec3) Compare(other Vec3, tolerance float64) bool {
	if kabs(v.X-other.X) >= tolerance {
		return false
	}

	if kabs(v.Y-other.Y) >= tolerance {
		return false
	}

	if kabs(v.Z-other.Z) >= tolerance {
		return false
	}

	return true
}

/**
 * @brief Creates extents whose minimum and maximum both sit at the given point.
 * Extend from here rather than from the zero value, which would pin the box
 * to the origin.
 */
func NewExtentsAt(p Vec3) Extents3D {
	return Extents3D{Min: p, Max: p}
}

// Extend returns extents grown to contain the given point.
func (e Extents3D) Extend(p Vec3) Extents3D {
	return Extents3D{
		Min: Vec3{min(e.Min.X, p.X), min(e.Min.Y, p.Y), min(e.Min.Z, p.Z)},
		Max: Vec3{max(e.Max.X, p.X), max(e.Max.Y, p.Y), max(e.Max.Z, p.Z)},
	}
}

// Union returns extents covering both inputs.
func (e Extents3D) Union(other Extents3D) Extents3D {
	return e.Extend(other.Min).Extend(other.Max)
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

// Size returns the per-axis dimensions of the extents.
func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}

// MaxDimension returns the largest of the three dimensions.
func (e Extents3D) MaxDimension() float64 {
	s := e.Size()
	return max(s.X, max(s.Y, s.Z))
}
