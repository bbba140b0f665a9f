package cmap

import (
	"sync"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// OrbitPolicy selects which i-cell an orbit traversal computes. Unlike
// attributes.BindOrbit, it names the "Linear" variants separately, but
// neighbors traverses each Linear variant with the same generator set as
// its non-linear counterpart: no single-chain walk is implemented.
type OrbitPolicy int

const (
	OrbitVertex OrbitPolicy = iota
	OrbitEdge
	OrbitFace
	OrbitVolume
	OrbitVertexLinear
	OrbitFaceLinear
	OrbitVolumeLinear
	OrbitCustom
)

// BindOrbit maps an OrbitPolicy to the coarser bucket the attribute
// manager partitions storages by.
func (o OrbitPolicy) BindOrbit() cellid.BindOrbit {
	switch o {
	case OrbitVertex, OrbitVertexLinear:
		return cellid.Vertex
	case OrbitEdge:
		return cellid.Edge
	case OrbitFace, OrbitFaceLinear:
		return cellid.Face
	case OrbitVolume, OrbitVolumeLinear:
		return cellid.Volume
	default:
		return cellid.Custom
	}
}

// scratch is the reusable BFS working state for orbit identification. The
// original implementation keeps this thread-local; a sync.Pool plays the
// same role for goroutines here, avoiding an allocation per i-cell lookup.
type scratch struct {
	marked  map[DartID]struct{}
	pending []DartID
}

var scratchPool = sync.Pool{New: func() any {
	return &scratch{marked: make(map[DartID]struct{}, 16)}
}}

func getScratch() *scratch {
	s := scratchPool.Get().(*scratch)
	s.pending = s.pending[:0]
	for k := range s.marked {
		delete(s.marked, k)
	}
	return s
}

func putScratch(s *scratch) { scratchPool.Put(s) }

// neighbors returns the darts idOfCell must fan out to from d in order to
// span the orbit named by policy, for a map of the given dimension. These
// are hard-wired per (dimension, policy) to the exact β compositions that
// generate the corresponding i-cell (spec.md §4.4) -- not a generic
// "every β except βi" rule, which does not hold once compositions are
// needed (e.g. the 2D vertex orbit is generated by β1∘β2 and β2∘β0, not by
// β1 and β2 individually).
func neighbors(b *betaStore, t *stm.Transaction, dim int, policy OrbitPolicy, d DartID) []DartID {
	beta := func(i int, x DartID) DartID { return b.Beta(t, i, x) }

	switch {
	case dim == 2 && (policy == OrbitVertex || policy == OrbitVertexLinear):
		return []DartID{beta(1, beta(2, d)), beta(2, beta(0, d))}
	case dim == 2 && policy == OrbitEdge:
		return []DartID{beta(2, d)}
	case dim == 2 && (policy == OrbitFace || policy == OrbitFaceLinear):
		return []DartID{beta(1, d), beta(0, d)}

	case dim == 3 && (policy == OrbitVertex || policy == OrbitVertexLinear):
		return []DartID{
			beta(1, beta(3, d)),
			beta(3, beta(2, d)),
			beta(1, beta(2, d)),
			beta(3, beta(0, d)),
			beta(2, beta(0, d)),
		}
	case dim == 3 && policy == OrbitEdge:
		return []DartID{beta(2, d), beta(3, d)}
	case dim == 3 && (policy == OrbitFace || policy == OrbitFaceLinear):
		// The reference implementation walks this orbit with a two-pointer
		// open/closed-loop scan for efficiency; a plain multi-generator
		// BFS over the same generator set {β0, β1, β3} reaches the same
		// orbit (same minimum dart), just without that optimization.
		return []DartID{beta(1, d), beta(0, d), beta(3, d)}
	case dim == 3 && (policy == OrbitVolume || policy == OrbitVolumeLinear):
		return []DartID{beta(1, d), beta(0, d), beta(2, d)}
	default:
		return nil
	}
}

// idOfCell computes the canonical identifier of the i-cell containing d:
// the minimum dart reachable from d via the orbit's generating β
// compositions, breadth-first, with the null dart pre-marked so it is
// never enqueued (spec.md §4.4).
func idOfCell(b *betaStore, t *stm.Transaction, dim int, policy OrbitPolicy, d DartID) DartID {
	if d.IsNull() {
		return NullDart
	}
	s := getScratch()
	defer putScratch(s)

	s.marked[NullDart] = struct{}{}
	s.marked[d] = struct{}{}
	s.pending = append(s.pending, d)
	min := d

	for len(s.pending) > 0 {
		cur := s.pending[0]
		s.pending = s.pending[1:]
		for _, n := range neighbors(b, t, dim, policy, cur) {
			if _, seen := s.marked[n]; seen {
				continue
			}
			s.marked[n] = struct{}{}
			if n < min {
				min = n
			}
			s.pending = append(s.pending, n)
		}
	}
	return min
}

// Orbit lazily enumerates every dart in the i-cell containing d, without
// assuming the orbit fits in memory all at once. Custom policies have no
// generators in neighbors, so their orbit contains d alone.
type Orbit struct {
	b       *betaStore
	dim     int
	policy  OrbitPolicy
	visited map[DartID]struct{}
	pending []DartID
}

// NewOrbit seeds a lazy traversal of the i-cell containing d.
func NewOrbit(b *betaStore, t *stm.Transaction, dim int, policy OrbitPolicy, d DartID) *Orbit {
	o := &Orbit{b: b, dim: dim, policy: policy, visited: map[DartID]struct{}{NullDart: {}}}
	if !d.IsNull() {
		o.visited[d] = struct{}{}
		o.pending = append(o.pending, d)
	}
	return o
}

// Next advances the traversal transactionally, returning the next dart in
// the orbit and true, or the zero value and false once exhausted.
func (o *Orbit) Next(t *stm.Transaction) (DartID, bool) {
	if len(o.pending) == 0 {
		return NullDart, false
	}
	cur := o.pending[0]
	o.pending = o.pending[1:]
	for _, n := range neighbors(o.b, t, o.dim, o.policy, cur) {
		if _, seen := o.visited[n]; seen {
			continue
		}
		o.visited[n] = struct{}{}
		o.pending = append(o.pending, n)
	}
	return cur, true
}

// Collect drains the orbit into a slice, for callers that want the whole
// i-cell at once.
func (o *Orbit) Collect(t *stm.Transaction) []DartID {
	var out []DartID
	for {
		d, ok := o.Next(t)
		if !ok {
			return out
		}
		out = append(out, d)
	}
}
