package cmap

import (
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/attributes"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/log"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/metrics"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// Map3 is a 3D combinatorial map: darts related by β0, β1, β2, β3,
// carrying a spatial vertex attribute plus registered user attributes
// (spec.md §3, §4.8).
type Map3[T geometry.CoordsFloat] struct {
	core     *mapCore
	vertices *attributes.SparseVec[VertexAttr3[T]]
}

// NewMap3 allocates a 3D map with n pre-allocated unused darts (plus the
// null dart).
func NewMap3[T geometry.CoordsFloat](n int) *Map3[T] {
	core := newMapCore(3, n)
	vertices, _ := attributes.AddStorage[VertexAttr3[T]](core.attrs, n+1)
	return &Map3[T]{core: core, vertices: vertices}
}

func (m *Map3[T]) InstanceID() string { return m.core.InstanceID().String() }

// Stats3 summarizes a Map3's current population.
type Stats3 struct {
	NDarts       int
	NUnusedDarts int
	NVertices    int
	NEdges       int
	NFaces       int
	NVolumes     int
}

// Stats computes a population snapshot, at the cost of a full orbit pass
// over every used dart for each cell kind.
func (m *Map3[T]) Stats() Stats3 {
	s := Stats3{NDarts: m.core.NDarts(), NUnusedDarts: m.core.NUnusedDarts()}
	s.NVertices = len(m.Vertices())
	s.NEdges = len(m.Edges())
	s.NFaces = len(m.Faces())
	s.NVolumes = len(m.Volumes())
	metrics.CellsTotal.WithLabelValues(m.InstanceID(), "vertex").Set(float64(s.NVertices))
	metrics.CellsTotal.WithLabelValues(m.InstanceID(), "edge").Set(float64(s.NEdges))
	metrics.CellsTotal.WithLabelValues(m.InstanceID(), "face").Set(float64(s.NFaces))
	metrics.CellsTotal.WithLabelValues(m.InstanceID(), "volume").Set(float64(s.NVolumes))
	return s
}

// --- dart management -------------------------------------------------

func (m *Map3[T]) AddFreeDart() DartID       { return m.core.addFreeDart() }
func (m *Map3[T]) AddFreeDarts(n int) DartID { return m.core.addFreeDarts(n) }
func (m *Map3[T]) InsertFreeDart() DartID    { return m.core.insertFreeDart() }
func (m *Map3[T]) NDarts() int               { return m.core.NDarts() }
func (m *Map3[T]) NUnusedDarts() int         { return m.core.NUnusedDarts() }
func (m *Map3[T]) IsUnused(d DartID) bool    { return m.core.IsUnused(d) }
func (m *Map3[T]) ReserveDarts(k int) []DartID { return m.core.reserveDarts(k) }
func (m *Map3[T]) IsFree(t *stm.Transaction, d DartID) bool { return m.core.IsFree(t, d) }

func (m *Map3[T]) RemoveFreeDart(d DartID) error {
	return stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return m.core.removeFreeDart(t, d)
	})
}

// --- β access ----------------------------------------------------------

func (m *Map3[T]) Beta(i int, d DartID) DartID { return m.core.Beta(i, d) }
func (m *Map3[T]) BetaTransac(t *stm.Transaction, i int, d DartID) DartID {
	return m.core.BetaTransac(t, i, d)
}

func (m *Map3[T]) LinkBeta(t *stm.Transaction, i int, a, d DartID) error {
	return m.core.linkBeta(t, i, a, d)
}

func (m *Map3[T]) UnlinkBeta(t *stm.Transaction, i int, a DartID) error {
	return m.core.unlinkBeta(t, i, a)
}

func (m *Map3[T]) SetBetaRaw(t *stm.Transaction, i int, d, image DartID) {
	m.core.setBetaRaw(t, i, d, image)
}

func (m *Map3[T]) SetUnusedRaw(t *stm.Transaction, d DartID, unused bool) {
	m.core.setUnusedRaw(t, d, unused)
}

// --- vertex attribute ---------------------------------------------------

func (m *Map3[T]) Vertex(t *stm.Transaction, vid DartID) (geometry.Vertex3[T], bool) {
	v, ok := m.vertices.Read(t, vid)
	return v.Vertex3, ok
}

func (m *Map3[T]) SetVertex(t *stm.Transaction, vid DartID, v geometry.Vertex3[T]) {
	m.vertices.Write(t, vid, VertexAttr3[T]{v})
}

func (m *Map3[T]) VertexID(t *stm.Transaction, d DartID) DartID {
	return idOfCell(m.core.beta, t, 3, OrbitVertex, d)
}

func (m *Map3[T]) EdgeID(t *stm.Transaction, d DartID) DartID {
	return idOfCell(m.core.beta, t, 3, OrbitEdge, d)
}

func (m *Map3[T]) FaceID(t *stm.Transaction, d DartID) DartID {
	return idOfCell(m.core.beta, t, 3, OrbitFace, d)
}

func (m *Map3[T]) VolumeID(t *stm.Transaction, d DartID) DartID {
	return idOfCell(m.core.beta, t, 3, OrbitVolume, d)
}

func (m *Map3[T]) VertexOrbit(t *stm.Transaction, d DartID) *Orbit {
	return NewOrbit(m.core.beta, t, 3, OrbitVertex, d)
}
func (m *Map3[T]) EdgeOrbit(t *stm.Transaction, d DartID) *Orbit {
	return NewOrbit(m.core.beta, t, 3, OrbitEdge, d)
}
func (m *Map3[T]) FaceOrbit(t *stm.Transaction, d DartID) *Orbit {
	return NewOrbit(m.core.beta, t, 3, OrbitFace, d)
}
func (m *Map3[T]) VolumeOrbit(t *stm.Transaction, d DartID) *Orbit {
	return NewOrbit(m.core.beta, t, 3, OrbitVolume, d)
}

func (m *Map3[T]) Vertices() []DartID { return m.canonicalIDs(OrbitVertex) }
func (m *Map3[T]) Edges() []DartID    { return m.canonicalIDs(OrbitEdge) }
func (m *Map3[T]) Faces() []DartID    { return m.canonicalIDs(OrbitFace) }
func (m *Map3[T]) Volumes() []DartID  { return m.canonicalIDs(OrbitVolume) }

func (m *Map3[T]) canonicalIDs(policy OrbitPolicy) []DartID {
	var out []DartID
	n := m.core.NDarts()
	stm.Atomically(func(t *stm.Transaction) {
		for d := DartID(1); int(d) < n; d++ {
			if m.core.darts.isUnusedTransac(t, d) {
				continue
			}
			if id := idOfCell(m.core.beta, t, 3, policy, d); id == d {
				out = append(out, d)
			}
		}
	})
	return out
}

// --- sew / unsew ---------------------------------------------------------

func (m *Map3[T]) OneSew(lhs, rhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return oneSewCore(m.core, t, lhs, rhs)
	})
	m.recordSew("1", "sew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "1", "sew")
	return err
}

func (m *Map3[T]) OneUnsew(lhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return oneUnsewCore(m.core, t, lhs)
	})
	m.recordSew("1", "unsew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "1", "unsew")
	return err
}

func (m *Map3[T]) TwoSew(lhs, rhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return twoSewCore(m.core, t, lhs, rhs, m.checkOrientation3D2(t))
	})
	m.recordSew("2", "sew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "2", "sew")
	return err
}

func (m *Map3[T]) TwoUnsew(lhs DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return twoUnsewCore(m.core, t, lhs)
	})
	m.recordSew("2", "unsew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "2", "unsew")
	return err
}

// ThreeSew 3-sews the two faces rooted at lhsRoot and rhsRoot together,
// gluing one volume's face to another's (spec.md scenario 6).
func (m *Map3[T]) ThreeSew(lhsRoot, rhsRoot DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return threeSewCore(m.core, t, lhsRoot, rhsRoot, m.checkOrientation3D3(t))
	})
	m.recordSew("3", "sew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "3", "sew")
	return err
}

// ThreeUnsew is the inverse of ThreeSew.
func (m *Map3[T]) ThreeUnsew(lhsRoot DartID) error {
	timer := metrics.NewTimer()
	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		return threeUnsewCore(m.core, t, lhsRoot)
	})
	m.recordSew("3", "unsew", err)
	timer.ObserveDurationVec(metrics.SewDuration, m.InstanceID(), "3", "unsew")
	return err
}

func (m *Map3[T]) checkOrientation3D2(t *stm.Transaction) func(lv, b1rv, b1lv, rv DartID) (bool, error) {
	return func(lv, b1rv, b1lv, rv DartID) (bool, error) {
		l, lok := m.Vertex(t, lv)
		b1r, b1rok := m.Vertex(t, b1rv)
		b1l, b1lok := m.Vertex(t, b1lv)
		r, rok := m.Vertex(t, rv)
		if !(lok && b1rok && b1lok && rok) {
			return true, nil
		}
		return b1l.Sub(l).Dot(b1r.Sub(r)) < 0, nil
	}
}

func (m *Map3[T]) checkOrientation3D3(t *stm.Transaction) func(lv, b1lv, rv, b1rv DartID) (bool, error) {
	return func(lv, b1lv, rv, b1rv DartID) (bool, error) {
		l, lok := m.Vertex(t, lv)
		b1l, b1lok := m.Vertex(t, b1lv)
		r, rok := m.Vertex(t, rv)
		b1r, b1rok := m.Vertex(t, b1rv)
		if !(lok && b1lok && rok && b1rok) {
			return true, nil
		}
		return b1l.Sub(l).Dot(b1r.Sub(r)) < 0, nil
	}
}

func (m *Map3[T]) recordSew(dim, op string, err error) {
	if err == nil {
		if op == "sew" {
			metrics.SewsTotal.WithLabelValues(m.InstanceID(), dim).Inc()
		} else {
			metrics.UnsewsTotal.WithLabelValues(m.InstanceID(), dim).Inc()
		}
		return
	}
	reason := "link"
	if se, ok := err.(*SewError); ok {
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
