package cmap

import (
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// linkCore is the pure-topology half of a sew: it fails if either dart is
// not i-free, without touching any attribute.
func linkCore(b *betaStore, t *stm.Transaction, i int, lhs, rhs DartID) error {
	if err := b.link(t, i, lhs, rhs); err != nil {
		return &SewError{Link: err.(*LinkError)}
	}
	return nil
}

// unlinkCore is the inverse of linkCore.
func unlinkCore(b *betaStore, t *stm.Transaction, i int, lhs DartID) error {
	if err := b.unlink(t, i, lhs); err != nil {
		return &SewError{Link: err.(*LinkError)}
	}
	return nil
}

// oneSewCore implements the 1-sew reference sequence (spec.md §4.7): if
// lhs has no β2 image the edge isn't fully defined yet, so this degrades
// to a pure link; otherwise it snapshots the two vertex ids the link is
// about to fuse, links, then merges the vertex attribute storages at the
// resulting (post-link) vertex id.
func oneSewCore(m *mapCore, t *stm.Transaction, lhs, rhs DartID) error {
	b2lhs := m.beta.Beta(t, 2, lhs)
	if b2lhs.IsNull() {
		return linkCore(m.beta, t, 1, lhs, rhs)
	}

	b2lhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, b2lhs)
	rhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)

	if err := linkCore(m.beta, t, 1, lhs, rhs); err != nil {
		return err
	}

	newVid := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
	if err := m.attrs.MergeAttributes(t, cellid.Vertex, newVid, b2lhsVidOld, rhsVidOld); err != nil {
		return &SewError{Attr: &AttributeOpError{Err: err}}
	}
	return nil
}

// oneUnsewCore is the inverse of oneSewCore: it snapshots the fused
// vertex, unlinks, then splits the attribute back across the two darts'
// new (post-unlink) vertex ids.
func oneUnsewCore(m *mapCore, t *stm.Transaction, lhs DartID) error {
	rhs := m.beta.Beta(t, 1, lhs)
	b2lhs := m.beta.Beta(t, 2, lhs)
	if b2lhs.IsNull() {
		return unlinkCore(m.beta, t, 1, lhs)
	}

	vidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)

	if err := unlinkCore(m.beta, t, 1, lhs); err != nil {
		return err
	}

	newB2lhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, b2lhs)
	newRhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
	if err := m.attrs.SplitAttributes(t, cellid.Vertex, newB2lhsVid, newRhsVid, vidOld); err != nil {
		return &SewError{Attr: &AttributeOpError{Err: err}}
	}
	return nil
}

// twoSewCore implements the 2-sew reference sequence, including the
// orientation check performed before linking when both sides already
// carry a defined edge chain (spec.md §9's resolved Open Question: a
// failed check returns BadGeometryError rather than panicking).
func twoSewCore(m *mapCore, t *stm.Transaction, lhs, rhs DartID, checkOrientation func(lv, b1rv, b1lv, rv DartID) (bool, error)) error {
	b1lhs := m.beta.Beta(t, 1, lhs)
	b1rhs := m.beta.Beta(t, 1, rhs)

	switch {
	case b1lhs.IsNull() && b1rhs.IsNull():
		return linkCore(m.beta, t, 2, lhs, rhs)

	case b1lhs.IsNull() && !b1rhs.IsNull():
		lhsEidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		rhsEidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, rhs)
		lhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		b1rhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, b1rhs)

		if err := linkCore(m.beta, t, 2, lhs, rhs); err != nil {
			return err
		}
		newVid := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		if err := m.attrs.MergeAttributes(t, cellid.Vertex, newVid, lhsVidOld, b1rhsVidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newEid := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		if err := m.attrs.MergeAttributes(t, cellid.Edge, newEid, lhsEidOld, rhsEidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		return nil

	case !b1lhs.IsNull() && b1rhs.IsNull():
		lhsEidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		rhsEidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, rhs)
		b1lhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, b1lhs)
		rhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)

		if err := linkCore(m.beta, t, 2, lhs, rhs); err != nil {
			return err
		}
		newVid := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
		if err := m.attrs.MergeAttributes(t, cellid.Vertex, newVid, b1lhsVidOld, rhsVidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newEid := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		if err := m.attrs.MergeAttributes(t, cellid.Edge, newEid, lhsEidOld, rhsEidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		return nil

	default:
		lhsEidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		rhsEidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, rhs)
		lhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		b1rhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, b1rhs)
		b1lhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, b1lhs)
		rhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)

		if checkOrientation != nil {
			ok, err := checkOrientation(lhsVidOld, b1rhsVidOld, b1lhsVidOld, rhsVidOld)
			if err != nil {
				return &SewError{Attr: &AttributeOpError{Err: err}}
			}
			if !ok {
				return &SewError{Geometry: &BadGeometryError{I: 2, A: lhs, B: rhs}}
			}
		}

		if err := linkCore(m.beta, t, 2, lhs, rhs); err != nil {
			return err
		}
		newLhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		if err := m.attrs.MergeAttributes(t, cellid.Vertex, newLhsVid, lhsVidOld, b1rhsVidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newRhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
		if err := m.attrs.MergeAttributes(t, cellid.Vertex, newRhsVid, b1lhsVidOld, rhsVidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newEid := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		if err := m.attrs.MergeAttributes(t, cellid.Edge, newEid, lhsEidOld, rhsEidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		return nil
	}
}

// twoUnsewCore is the inverse of twoSewCore: the edge and both vertices
// are split back to their pre-sew identities. Since 2-sew is its own
// structural inverse w.r.t. which dart pairs define which cells, the same
// four-case shape applies, but in terms of split rather than merge.
func twoUnsewCore(m *mapCore, t *stm.Transaction, lhs DartID) error {
	rhs := m.beta.Beta(t, 2, lhs)
	b1lhs := m.beta.Beta(t, 1, lhs)
	b1rhs := m.beta.Beta(t, 1, rhs)

	switch {
	case b1lhs.IsNull() && b1rhs.IsNull():
		return unlinkCore(m.beta, t, 2, lhs)

	case b1lhs.IsNull() && !b1rhs.IsNull():
		vidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		eidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		if err := unlinkCore(m.beta, t, 2, lhs); err != nil {
			return err
		}
		newLhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		newB1rhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, b1rhs)
		if err := m.attrs.SplitAttributes(t, cellid.Vertex, newLhsVid, newB1rhsVid, vidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newLhsEid := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		newRhsEid := idOfCell(m.beta, t, m.dim, OrbitEdge, rhs)
		if err := m.attrs.SplitAttributes(t, cellid.Edge, newLhsEid, newRhsEid, eidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		return nil

	case !b1lhs.IsNull() && b1rhs.IsNull():
		vidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
		eidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		if err := unlinkCore(m.beta, t, 2, lhs); err != nil {
			return err
		}
		newB1lhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, b1lhs)
		newRhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
		if err := m.attrs.SplitAttributes(t, cellid.Vertex, newB1lhsVid, newRhsVid, vidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newLhsEid := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		newRhsEid := idOfCell(m.beta, t, m.dim, OrbitEdge, rhs)
		if err := m.attrs.SplitAttributes(t, cellid.Edge, newLhsEid, newRhsEid, eidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		return nil

	default:
		lhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		rhsVidOld := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
		eidOld := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)

		if err := unlinkCore(m.beta, t, 2, lhs); err != nil {
			return err
		}
		newLhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, lhs)
		newB1rhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, b1rhs)
		if err := m.attrs.SplitAttributes(t, cellid.Vertex, newLhsVid, newB1rhsVid, lhsVidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newB1lhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, b1lhs)
		newRhsVid := idOfCell(m.beta, t, m.dim, OrbitVertex, rhs)
		if err := m.attrs.SplitAttributes(t, cellid.Vertex, newB1lhsVid, newRhsVid, rhsVidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newLhsEid := idOfCell(m.beta, t, m.dim, OrbitEdge, lhs)
		newRhsEid := idOfCell(m.beta, t, m.dim, OrbitEdge, rhs)
		if err := m.attrs.SplitAttributes(t, cellid.Edge, newLhsEid, newRhsEid, eidOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		return nil
	}
}

// faceCycle walks the face boundary starting at d via β1 until it closes
// back on d (a well-formed polygon) or hits the null dart (an open
// boundary, which the 3-sew pairing below rejects).
func faceCycle(b *betaStore, t *stm.Transaction, d DartID) []DartID {
	var out []DartID
	cur := d
	for {
		out = append(out, cur)
		cur = b.Beta(t, 1, cur)
		if cur.IsNull() || cur == d {
			break
		}
	}
	return out
}

// threeSewCore implements 3-sew: the volume-level analogue of 2-sew. It
// pairs the darts of the two shared faces one-for-one following each
// face's β1 cycle, links each pair via β3, then merges the vertex and
// edge attributes the pairing fuses, and finally the two old face
// identifiers into the single new one (the 3D face orbit spans β3, so the
// two faces become one orbit once every boundary dart is paired -- but
// the volume orbit excludes β3, so the two volumes stay distinct, matching
// spec.md's pyramid-sewing scenario). This package has no grounding
// source for the exact pairing convention (the retrieved reference
// sources cover only the 2D sew/unsew implementation), so the choice to
// pair same-direction β1 cycles index-for-index, and to check orientation
// once using each root dart's own edge direction, is this package's own
// implementation decision, documented in DESIGN.md.
func threeSewCore(m *mapCore, t *stm.Transaction, lhsRoot, rhsRoot DartID, checkOrientation func(lv, b1lv, rv, b1rv DartID) (bool, error)) error {
	lhsCycle := faceCycle(m.beta, t, lhsRoot)
	rhsCycle := faceCycle(m.beta, t, rhsRoot)
	if len(lhsCycle) != len(rhsCycle) {
		return &SewError{Geometry: &BadGeometryError{I: 3, A: lhsRoot, B: rhsRoot}}
	}

	if checkOrientation != nil {
		lv := idOfCell(m.beta, t, m.dim, OrbitVertex, lhsRoot)
		b1lv := idOfCell(m.beta, t, m.dim, OrbitVertex, m.beta.Beta(t, 1, lhsRoot))
		rv := idOfCell(m.beta, t, m.dim, OrbitVertex, rhsRoot)
		b1rv := idOfCell(m.beta, t, m.dim, OrbitVertex, m.beta.Beta(t, 1, rhsRoot))
		ok, err := checkOrientation(lv, b1lv, rv, b1rv)
		if err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		if !ok {
			return &SewError{Geometry: &BadGeometryError{I: 3, A: lhsRoot, B: rhsRoot}}
		}
	}

	faceLhsOld := idOfCell(m.beta, t, m.dim, OrbitFace, lhsRoot)
	faceRhsOld := idOfCell(m.beta, t, m.dim, OrbitFace, rhsRoot)

	type snap struct{ a, b, vaOld, vbOld, eaOld, ebOld DartID }
	snaps := make([]snap, len(lhsCycle))
	for i, a := range lhsCycle {
		b := rhsCycle[i]
		snaps[i] = snap{
			a: a, b: b,
			vaOld: idOfCell(m.beta, t, m.dim, OrbitVertex, a),
			vbOld: idOfCell(m.beta, t, m.dim, OrbitVertex, b),
			eaOld: idOfCell(m.beta, t, m.dim, OrbitEdge, a),
			ebOld: idOfCell(m.beta, t, m.dim, OrbitEdge, b),
		}
	}

	for _, s := range snaps {
		if err := linkCore(m.beta, t, 3, s.a, s.b); err != nil {
			return err
		}
	}

	for _, s := range snaps {
		newVid := idOfCell(m.beta, t, m.dim, OrbitVertex, s.a)
		if err := m.attrs.MergeAttributes(t, cellid.Vertex, newVid, s.vaOld, s.vbOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newEid := idOfCell(m.beta, t, m.dim, OrbitEdge, s.a)
		if err := m.attrs.MergeAttributes(t, cellid.Edge, newEid, s.eaOld, s.ebOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
	}

	newFid := idOfCell(m.beta, t, m.dim, OrbitFace, lhsRoot)
	if err := m.attrs.MergeAttributes(t, cellid.Face, newFid, faceLhsOld, faceRhsOld); err != nil {
		return &SewError{Attr: &AttributeOpError{Err: err}}
	}
	return nil
}

// threeUnsewCore is the inverse of threeSewCore.
func threeUnsewCore(m *mapCore, t *stm.Transaction, lhsRoot DartID) error {
	cycle := faceCycle(m.beta, t, lhsRoot)
	partners := make([]DartID, len(cycle))
	for i, a := range cycle {
		partners[i] = m.beta.Beta(t, 3, a)
		if partners[i].IsNull() {
			return &SewError{Link: &LinkError{Kind: AlreadyFree, I: 3, A: a}}
		}
	}

	faceOld := idOfCell(m.beta, t, m.dim, OrbitFace, lhsRoot)

	type snap struct{ a, b, vOld, eOld DartID }
	snaps := make([]snap, len(cycle))
	for i, a := range cycle {
		snaps[i] = snap{
			a:    a,
			b:    partners[i],
			vOld: idOfCell(m.beta, t, m.dim, OrbitVertex, a),
			eOld: idOfCell(m.beta, t, m.dim, OrbitEdge, a),
		}
	}

	for _, s := range snaps {
		if err := unlinkCore(m.beta, t, 3, s.a); err != nil {
			return err
		}
	}

	for _, s := range snaps {
		newVaId := idOfCell(m.beta, t, m.dim, OrbitVertex, s.a)
		newVbId := idOfCell(m.beta, t, m.dim, OrbitVertex, s.b)
		if err := m.attrs.SplitAttributes(t, cellid.Vertex, newVaId, newVbId, s.vOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
		newEaId := idOfCell(m.beta, t, m.dim, OrbitEdge, s.a)
		newEbId := idOfCell(m.beta, t, m.dim, OrbitEdge, s.b)
		if err := m.attrs.SplitAttributes(t, cellid.Edge, newEaId, newEbId, s.eOld); err != nil {
			return &SewError{Attr: &AttributeOpError{Err: err}}
		}
	}

	newLhsFid := idOfCell(m.beta, t, m.dim, OrbitFace, lhsRoot)
	newRhsFid := idOfCell(m.beta, t, m.dim, OrbitFace, partners[0])
	if err := m.attrs.SplitAttributes(t, cellid.Face, newLhsFid, newRhsFid, faceOld); err != nil {
		return &SewError{Attr: &AttributeOpError{Err: err}}
	}
	return nil
}
