package cmap

import (
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/attributes"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// AddAttribute2 registers a user attribute storage for type A on a 2D map
// (spec.md §4.8's add_attribute<A>). Go has no generic methods, so this
// and its siblings below are free functions taking the map explicitly.
func AddAttribute2[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map2[T], capacity int) *attributes.SparseVec[A] {
	s, _ := attributes.AddStorage[A](m.core.attrs, capacity)
	return s
}

// ReadAttribute2 reads the A-typed attribute bound to id.
func ReadAttribute2[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map2[T], t *stm.Transaction, id DartID) (A, bool) {
	s, ok := attributes.GetStorage[A](m.core.attrs)
	if !ok {
		var zero A
		return zero, false
	}
	return s.Read(t, id)
}

// WriteAttribute2 writes the A-typed attribute bound to id, returning
// whatever was previously there.
func WriteAttribute2[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map2[T], t *stm.Transaction, id DartID, v A) (A, bool) {
	s, ok := attributes.GetStorage[A](m.core.attrs)
	if !ok {
		s = AddAttribute2[T, A](m, m.core.NDarts())
	}
	return s.Write(t, id, v)
}

// RemoveAttribute2 clears the A-typed attribute bound to id.
func RemoveAttribute2[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map2[T], t *stm.Transaction, id DartID) (A, bool) {
	s, ok := attributes.GetStorage[A](m.core.attrs)
	if !ok {
		var zero A
		return zero, false
	}
	return s.Remove(t, id)
}

// AddAttribute3 is AddAttribute2's 3D counterpart.
func AddAttribute3[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map3[T], capacity int) *attributes.SparseVec[A] {
	s, _ := attributes.AddStorage[A](m.core.attrs, capacity)
	return s
}

func ReadAttribute3[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map3[T], t *stm.Transaction, id DartID) (A, bool) {
	s, ok := attributes.GetStorage[A](m.core.attrs)
	if !ok {
		var zero A
		return zero, false
	}
	return s.Read(t, id)
}

func WriteAttribute3[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map3[T], t *stm.Transaction, id DartID, v A) (A, bool) {
	s, ok := attributes.GetStorage[A](m.core.attrs)
	if !ok {
		s = AddAttribute3[T, A](m, m.core.NDarts())
	}
	return s.Write(t, id, v)
}

func RemoveAttribute3[T geometry.CoordsFloat, A attributes.Attribute[A]](m *Map3[T], t *stm.Transaction, id DartID) (A, bool) {
	s, ok := attributes.GetStorage[A](m.core.attrs)
	if !ok {
		var zero A
		return zero, false
	}
	return s.Remove(t, id)
}
