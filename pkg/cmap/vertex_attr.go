package cmap

import (
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
)

// VertexAttr2 is the spatial attribute bound to every 0-cell of a 2D map.
// Merging two vertices averages their coordinates; splitting duplicates
// the value to both sides (spec.md §4.5's worked vertex example).
type VertexAttr2[T geometry.CoordsFloat] struct {
	geometry.Vertex2[T]
}

func (v VertexAttr2[T]) Merge(o VertexAttr2[T]) VertexAttr2[T] {
	return VertexAttr2[T]{geometry.AverageVertex2(v.Vertex2, o.Vertex2)}
}

func (v VertexAttr2[T]) Split() (VertexAttr2[T], VertexAttr2[T]) { return v, v }

func (v VertexAttr2[T]) BindOrbit() cellid.BindOrbit { return cellid.Vertex }

// MergeIncomplete merges a cell carrying a vertex with one that never had
// one assigned. With only one position on record, that position is the
// merged cell's best estimate.
func (v VertexAttr2[T]) MergeIncomplete(present VertexAttr2[T]) VertexAttr2[T] { return present }

// MergeFromNone merges two cells that both lack a vertex. Sewing bare
// topology together this way is routine (geometry is often assigned after
// the fact), so this produces an undefined placeholder rather than
// erroring out the sew.
func (v VertexAttr2[T]) MergeFromNone() VertexAttr2[T] { return VertexAttr2[T]{} }

// VertexAttr3 is the spatial attribute bound to every 0-cell of a 3D map.
type VertexAttr3[T geometry.CoordsFloat] struct {
	geometry.Vertex3[T]
}

func (v VertexAttr3[T]) Merge(o VertexAttr3[T]) VertexAttr3[T] {
	return VertexAttr3[T]{geometry.AverageVertex3(v.Vertex3, o.Vertex3)}
}

func (v VertexAttr3[T]) Split() (VertexAttr3[T], VertexAttr3[T]) { return v, v }

func (v VertexAttr3[T]) BindOrbit() cellid.BindOrbit { return cellid.Vertex }

// MergeIncomplete mirrors VertexAttr2's: the one known position is kept.
func (v VertexAttr3[T]) MergeIncomplete(present VertexAttr3[T]) VertexAttr3[T] { return present }

// MergeFromNone mirrors VertexAttr2's: sewing two vertex-less cells
// together produces an undefined placeholder instead of failing the sew.
func (v VertexAttr3[T]) MergeFromNone() VertexAttr3[T] { return VertexAttr3[T]{} }
