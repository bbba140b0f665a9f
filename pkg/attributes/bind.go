package attributes

import "github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"

// Updater is the contract an attribute value type supplies to the sew/unsew
// orchestration (spec.md §4.5): Merge combines two values carried by cells
// that are being fused, Split produces the two values that result from
// pulling a cell apart again. Both receive value, not pointer, receivers:
// attribute values are expected to be small and copyable.
type Updater[A any] interface {
	Merge(other A) A
	Split() (A, A)
}

// IncompleteMerger is an optional refinement of Updater: it covers merging
// a defined value against an undefined one (e.g. one side of a 2-sew whose
// vertex was never assigned). Attribute types that don't implement it
// surface AttributeError{Kind: InsufficientData} when that case arises.
type IncompleteMerger[A any] interface {
	MergeIncomplete(present A) A
}

// NoneMerger is an optional refinement of Updater covering the merge of
// two undefined values. Attribute types that don't implement it surface
// AttributeError{Kind: InsufficientData} when that case arises.
type NoneMerger[A any] interface {
	MergeFromNone() A
}

// BindOrbit reports the i-cell kind A values are attached to. It is
// implemented by the attribute value type itself so that AddStorage can
// infer the bucket without an extra argument, mirroring how the attribute
// manager's original design dispatches on the bound type (spec.md §4.6).
type Bound interface {
	BindOrbit() cellid.BindOrbit
}
