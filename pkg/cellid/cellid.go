// Package cellid holds the identifier types shared between the
// combinatorial map engine and the attribute subsystem. Splitting them
// out of pkg/cmap lets pkg/attributes depend on dart identifiers and
// bind-orbit kinds without importing the map engine itself, since the
// map engine in turn embeds an attribute manager.
package cellid

// DartID identifies a dart. The zero value is the null dart: it is never
// part of any orbit and every β function fixes it.
type DartID uint32

// NullDart is the absorbing, non-existent dart.
const NullDart DartID = 0

// IsNull reports whether d is the null dart.
func (d DartID) IsNull() bool { return d == NullDart }

// BindOrbit names the i-cell kind an attribute is bound to, used by the
// attribute manager to bucket storages (spec.md §4.5/§4.6). It is
// deliberately coarser than pkg/cmap's OrbitPolicy: the "Linear" traversal
// variants address the same cells as their non-linear counterparts, so
// they share a bucket here.
type BindOrbit int

const (
	// Vertex attributes are bound to 0-cells.
	Vertex BindOrbit = iota
	// Edge attributes are bound to 1-cells.
	Edge
	// Face attributes are bound to 2-cells.
	Face
	// Volume attributes are bound to 3-cells.
	Volume
	// Custom attributes are bound to a user-defined orbit and are keyed
	// by type alone rather than by one of the four fixed buckets.
	Custom
)

func (o BindOrbit) String() string {
	switch o {
	case Vertex:
		return "Vertex"
	case Edge:
		return "Edge"
	case Face:
		return "Face"
	case Volume:
		return "Volume"
	case Custom:
		return "Custom"
	default:
		return "Unknown"
	}
}
