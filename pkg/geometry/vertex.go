// Package geometry defines the coordinate types embedded in combinatorial
// maps as the spatial-vertex attribute (spec.md §3, "Ownership & lifecycle").
package geometry

// CoordsFloat is the constraint satisfied by a map's coordinate type.
type CoordsFloat interface {
	~float32 | ~float64
}

// Vertex2 is a point in the plane, used as the spatial embedding of a
// vertex in a 2D map.
type Vertex2[T CoordsFloat] struct {
	X, Y T
}

// Add returns the component-wise sum of two vertices.
func (v Vertex2[T]) Add(o Vertex2[T]) Vertex2[T] {
	return Vertex2[T]{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the vector from o to v.
func (v Vertex2[T]) Sub(o Vertex2[T]) Vertex2[T] {
	return Vertex2[T]{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vertex2[T]) Scale(s T) Vertex2[T] {
	return Vertex2[T]{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o, used by the 2-sew orientation
// check in spec.md §4.7.
func (v Vertex2[T]) Dot(o Vertex2[T]) T {
	return v.X*o.X + v.Y*o.Y
}

// AverageVertex2 returns the midpoint of a and b, the default merge rule for
// spatial vertex attributes (spec.md §4.7).
func AverageVertex2[T CoordsFloat](a, b Vertex2[T]) Vertex2[T] {
	return Vertex2[T]{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Vertex3 is a point in space, used as the spatial embedding of a vertex
// in a 3D map.
type Vertex3[T CoordsFloat] struct {
	X, Y, Z T
}

// Add returns the component-wise sum of two vertices.
func (v Vertex3[T]) Add(o Vertex3[T]) Vertex3[T] {
	return Vertex3[T]{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns the vector from o to v.
func (v Vertex3[T]) Sub(o Vertex3[T]) Vertex3[T] {
	return Vertex3[T]{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vertex3[T]) Scale(s T) Vertex3[T] {
	return Vertex3[T]{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vertex3[T]) Dot(o Vertex3[T]) T {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// AverageVertex3 returns the midpoint of a and b.
func AverageVertex3[T CoordsFloat](a, b Vertex3[T]) Vertex3[T] {
	return Vertex3[T]{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}
