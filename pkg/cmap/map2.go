package cmap

import (
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/attributes"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/log"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/metrics"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// Map2 is a 2D combinatorial map: darts related by β0, β1, β2, carrying a
// spatial vertex attribute plus whatever user attributes are registered
// (spec.md §3, §4.8).
type Map2[T geometry.CoordsFloat] struct {
	core     *mapCore
	vertices *attributes.SparseVec[VertexAttr2[T]]
}

// NewMap2 allocates a 2D map with n pre-allocated unused darts (plus the
// null dart).
func NewMap2[T geometry.CoordsFloat](n int) *Map2[T] {
	core := newMapCore(2, n)
	vertices, _ := attributes.AddStorage[VertexAttr2[T]](core.attrs, n+1)
	return &Map2[T]{core: core, vertices: vertices}
}

// InstanceID identifies this map instance across log lines and metrics.
func (m *Map2[T]) InstanceID() string { return m.core.InstanceID().String() }

// Stats2 summarizes a Map2's current population.
type Stats2 struct {
	NDarts       int
	NUnusedDarts int
	NVertices    int
	NEdges       int
	NFaces       int
}

// Stats computes a population snapshot. It is not cheap: vertex/edge/face
// counts require a full orbit pass over every used dart.
func (m *Map2[T]) Stats() Stats2 {
	s := Stats2{NDarts: m.core.NDarts(), NUnusedDarts: m.core.NUnusedDarts()}
	s.NVertices = len(m.Vertices())
	s.NEdges = len(m.Edges())
	s.NFaces = len(m.Faces())
	metrics.CellsTotal.WithLabelValues(m.InstanceID(), "vertex").Set(float64(s.NVertices))
	metrics.CellsTotal.WithLabelValues(m.InstanceID(), "edge").Set(float64(s.NEdges))
	metrics.CellsTotal.WithLabelValues(m.InstanceID(), "face").Set(float64(s.NFaces))
	return s
}

// --- dart management -------------------------------------------------

func (m *Map2[T]) AddFreeDart() DartID       { return m.core.addFreeDart() }
func (m *Map2[T]) AddFreeDarts(n int) DartID { return m.core.addFreeDarts(n) }
func (m *Map2[T]) InsertFreeDart() DartID    { return m.core.insertFreeDart() }
func (m *Map2[T]) NDarts() int               { return m.core.NDarts() }
func (m *Map2[T]) NUnusedDarts() int         { return m.core.NUnusedDarts() }
func (m *Map2[T]) IsUnused(d DartID) bool    { return m.core.IsUnused(d) }
func (m *Map2[T]) ReserveDarts(k int) []DartID { return m.core.reserveDarts(k) }
func (m *Map2[T]) IsFree(t *stm.Transaction, d DartID) bool { return m.core.IsFree(t, d) }

// RemoveFreeDart releases d back to the unused pool.
func (m *Map2[T]) RemoveFreeDart(d DartID) error {
	return stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return m.core.removeFreeDart(t, d)
	})
}

// --- β access ----------------------------------------------------------

func (m *Map2[T]) Beta(i int, d DartID) DartID { return m.core.Beta(i, d) }
func (m *Map2[T]) BetaTransac(t *stm.Transaction, i int, d DartID) DartID {
	return m.core.BetaTransac(t, i, d)
}

// LinkBeta is the pure-topology link (no attribute merge), for grid
// builders and other code that assembles topology directly.
func (m *Map2[T]) LinkBeta(t *stm.Transaction, i int, a, d DartID) error {
	return m.core.linkBeta(t, i, a, d)
}

// UnlinkBeta is the inverse of LinkBeta.
func (m *Map2[T]) UnlinkBeta(t *stm.Transaction, i int, a DartID) error {
	return m.core.unlinkBeta(t, i, a)
}

// SetBetaRaw writes βi(d) without freeness validation, for deserializing
// a trusted, already-consistent representation.
func (m *Map2[T]) SetBetaRaw(t *stm.Transaction, i int, d, image DartID) {
	m.core.setBetaRaw(t, i, d, image)
}

// SetUnusedRaw marks d used/unused directly, for the same
// trusted-deserialization use case as SetBetaRaw.
func (m *Map2[T]) SetUnusedRaw(t *stm.Transaction, d DartID, unused bool) {
	m.core.setUnusedRaw(t, d, unused)
}

// --- vertex attribute ---------------------------------------------------

// Vertex reads the spatial vertex attribute bound to a vertex id (the
// canonical dart returned by VertexID).
func (m *Map2[T]) Vertex(t *stm.Transaction, vid DartID) (geometry.Vertex2[T], bool) {
	v, ok := m.vertices.Read(t, vid)
	return v.Vertex2, ok
}

// SetVertex writes the spatial vertex attribute bound to a vertex id.
func (m *Map2[T]) SetVertex(t *stm.Transaction, vid DartID, v geometry.Vertex2[T]) {
	m.vertices.Write(t, vid, VertexAttr2[T]{v})
}

// VertexID returns the canonical identifier of the vertex (0-cell)
// containing d.
func (m *Map2[T]) VertexID(t *stm.Transaction, d DartID) DartID {
	return idOfCell(m.core.beta, t, 2, OrbitVertex, d)
}

// EdgeID returns the canonical identifier of the edge (1-cell) containing d.
func (m *Map2[T]) EdgeID(t *stm.Transaction, d DartID) DartID {
	return idOfCell(m.core.beta, t, 2, OrbitEdge, d)
}

// FaceID returns the canonical identifier of the face (2-cell) containing d.
func (m *Map2[T]) FaceID(t *stm.Transaction, d DartID) DartID {
	return idOfCell(m.core.beta, t, 2, OrbitFace, d)
}

// VertexOrbit starts a lazy traversal of the vertex orbit containing d.
func (m *Map2[T]) VertexOrbit(t *stm.Transaction, d DartID) *Orbit {
	return NewOrbit(m.core.beta, t, 2, OrbitVertex, d)
}

// EdgeOrbit starts a lazy traversal of the edge orbit containing d.
func (m *Map2[T]) EdgeOrbit(t *stm.Transaction, d DartID) *Orbit {
	return NewOrbit(m.core.beta, t, 2, OrbitEdge, d)
}

// FaceOrbit starts a lazy traversal of the face orbit containing d.
func (m *Map2[T]) FaceOrbit(t *stm.Transaction, d DartID) *Orbit {
	return NewOrbit(m.core.beta, t, 2, OrbitFace, d)
}

// Vertices returns the canonical id of every vertex in the map.
func (m *Map2[T]) Vertices() []DartID { return m.canonicalIDs(OrbitVertex) }

// Edges returns the canonical id of every edge in the map.
func (m *Map2[T]) Edges() []DartID { return m.canonicalIDs(OrbitEdge) }

// Faces returns the canonical id of every face in the map.
func (m *Map2[T]) Faces() []DartID { return m.canonicalIDs(OrbitFace) }

func (m *Map2[T]) canonicalIDs(policy OrbitPolicy) []DartID {
	var out []DartID
	n := m.core.NDarts()
	stm.Atomically(func(t *stm.Transaction) {
		for d := DartID(1); int(d) < n; d++ {
			if m.core.darts.isUnusedTransac(t, d) {
				continue
			}
			if id := idOfCell(m.core.beta, t, 2, policy, d); id == d {
				out = append(out, d)
			}
		}
	})
	return out
}

// --- sew / unsew ---------------------------------------------------------

// OneSew 1-sews lhs and rhs, merging vertex attributes when the edge
// becomes fully defined by the operation.
func (m *Map2[T]) OneSew(lhs, rhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return oneSewCore(m.core, t, lhs, rhs)
	})
	m.recordSew("1", "sew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "1", "sew")
	return err
}

// OneUnsew is the inverse of OneSew.
func (m *Map2[T]) OneUnsew(lhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return oneUnsewCore(m.core, t, lhs)
	})
	m.recordSew("1", "unsew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "1", "unsew")
	return err
}

// TwoSew 2-sews lhs and rhs. When both darts already carry a defined edge
// chain, the two resulting edge segments' orientation is checked before
// linking; a consistency violation returns a SewError wrapping
// BadGeometryError rather than panicking (spec.md §9).
func (m *Map2[T]) TwoSew(lhs, rhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return twoSewCore(m.core, t, lhs, rhs, m.checkOrientation2D(t))
	})
	m.recordSew("2", "sew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "2", "sew")
	return err
}

// TwoUnsew is the inverse of TwoSew.
func (m *Map2[T]) TwoUnsew(lhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return twoUnsewCore(m.core, t, lhs)
	})
	m.recordSew("2", "unsew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "2", "unsew")
	return err
}

func (m *Map2[T]) checkOrientation2D(t *stm.Transaction) func(lv, b1rv, b1lv, rv DartID) (bool, error) {
	return func(lv, b1rv, b1lv, rv DartID) (bool, error) {
		l, lok := m.Vertex(t, lv)
		b1r, b1rok := m.Vertex(t, b1rv)
		b1l, b1lok := m.Vertex(t, b1lv)
		r, rok := m.Vertex(t, rv)
		if !(lok && b1rok && b1lok && rok) {
			return true, nil // not enough geometry to check; proceed as the reference implementation does
		}
		lhsVector := b1l.Sub(l)
		rhsVector := b1r.Sub(r)
		return lhsVector.Dot(rhsVector) < 0, nil
	}
}

func (m *Map2[T]) recordSew(dim, op string, err error) {
	if err == nil {
		if op == "sew" {
			metrics.SewsTotal.WithLabelValues(m.InstanceID(), dim).Inc()
		} else {
			metrics.UnsewsTotal.WithLabelValues(m.InstanceID(), dim).Inc()
		}
		return
	}
	reason := "link"
	var se *SewError
	if asSewError(err, &se) {
		switch {
		case se.Geometry != nil:
			reason = "geometry"
		case se.Attr != nil:
			reason = "attribute"
		}
	}
	metrics.SewFailuresTotal.WithLabelValues(m.InstanceID(), dim, reason).Inc()
	log.WithComponent("cmap").Warn().
		Str("instance", m.InstanceID()).
		Str("dimension", dim).
		Str("op", op).
		Str("reason", reason).
		Msg("sew operation failed")
}

func asSewError(err error, target **SewError) bool {
	se, ok := err.(*SewError)
	if ok {
		*target = se
	}
	return ok
}
