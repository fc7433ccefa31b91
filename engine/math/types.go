package math

// Vec3 represents a 3D vector.
//
// Coordinates are float64 throughout: the vertex-welding tolerances this
// package serves (down to 1e-12) sit below float32 resolution.
type Vec3 struct {
	X, Y, Z float64
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}
