package cmap

import (
	"github.com/google/uuid"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/attributes"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// mapCore is the topology + attribute-registry state shared by Map2 and
// Map3: dart allocation, β-function storage, and the attribute manager
// don't depend on the ambient dimension beyond the number of β rows.
type mapCore struct {
	dim   int
	darts *unusedDarts
	beta  *betaStore
	attrs *attributes.Manager
	id    uuid.UUID
}

func newMapCore(dim, nDarts int) *mapCore {
	return &mapCore{
		dim:   dim,
		darts: newUnusedDarts(nDarts + 1), // +1 for the null dart slot
		beta:  newBetaStore(dim, nDarts+1),
		attrs: attributes.NewManager(nDarts + 1),
		id:    uuid.New(),
	}
}

// InstanceID identifies this map instance, stable for its lifetime, used
// to correlate log lines and metrics series across a process that may
// hold several maps.
func (m *mapCore) InstanceID() uuid.UUID { return m.id }

// NDarts returns the number of dart slots currently allocated, including
// unused ones and the null dart.
func (m *mapCore) NDarts() int { return m.darts.len() }

// NUnusedDarts returns the number of allocated-but-unused dart slots.
func (m *mapCore) NUnusedDarts() int { return m.darts.nUnused() }

// IsUnused reports whether d is currently unused.
func (m *mapCore) IsUnused(d DartID) bool { return m.darts.isUnused(d) }

// Beta reads βi(d) outside of a transaction.
func (m *mapCore) Beta(i int, d DartID) DartID { return m.beta.BetaAtomic(i, d) }

// BetaTransac reads βi(d) within a transaction.
func (m *mapCore) BetaTransac(t *stm.Transaction, i int, d DartID) DartID {
	return m.beta.Beta(t, i, d)
}

// addFreeDart allocates a single new, unused dart and extends every
// attribute storage to match.
func (m *mapCore) addFreeDart() DartID {
	d := m.darts.allocateUnused(1)
	m.beta.extend(1)
	m.attrs.ExtendStorages(1)
	return d
}

// addFreeDarts allocates n new, unused darts starting at a contiguous
// block and extends storages to match, returning the first id.
func (m *mapCore) addFreeDarts(n int) DartID {
	first := m.darts.allocateUnused(n)
	m.beta.extend(n)
	m.attrs.ExtendStorages(n)
	return first
}

// insertFreeDart reuses the first unused dart slot if one exists,
// otherwise allocates a fresh one.
func (m *mapCore) insertFreeDart() DartID {
	before := m.darts.len()
	d := m.darts.insertFree()
	if m.darts.len() > before {
		m.beta.extend(m.darts.len() - before)
		m.attrs.ExtendStorages(m.darts.len() - before)
	}
	return d
}

// removeFreeDart releases a dart back to the unused pool, failing if it
// is not currently free in every β row (spec.md §4.2).
func (m *mapCore) removeFreeDart(t *stm.Transaction, d DartID) error {
	if !m.beta.isFree(t, d) {
		return &DartReleaseError{Dart: d}
	}
	m.darts.release(t, d)
	return nil
}

// reserveDarts returns k claimed dart identifiers, reusing unused slots
// before allocating fresh ones, extending β rows and attribute storages
// to match any growth (spec.md §4.8's reserve_darts).
func (m *mapCore) reserveDarts(k int) []DartID {
	before := m.darts.len()
	ids := m.darts.reserveFrom(1, k)
	if grown := m.darts.len() - before; grown > 0 {
		m.beta.extend(grown)
		m.attrs.ExtendStorages(grown)
	}
	return ids
}

// IsFree reports whether d is i-free for every i.
func (m *mapCore) IsFree(t *stm.Transaction, d DartID) bool { return m.beta.isFree(t, d) }

// linkBeta is the pure-topology link, validated by freeness preconditions
// -- exported to grid builders, which construct topology directly rather
// than through the attribute-merging Sew wrappers.
func (m *mapCore) linkBeta(t *stm.Transaction, i int, a, d DartID) error {
	return m.beta.link(t, i, a, d)
}

func (m *mapCore) unlinkBeta(t *stm.Transaction, i int, a DartID) error {
	return m.beta.unlink(t, i, a)
}

// setBetaRaw writes βi(d) without any freeness validation, for
// deserializing trusted flat-text/bbolt snapshots that already encode a
// consistent involution.
func (m *mapCore) setBetaRaw(t *stm.Transaction, i int, d, image DartID) {
	m.beta.setBeta(t, i, d, image)
}

// setUnusedRaw marks d used/unused directly, bypassing release's freeness
// check, for the same trusted-deserialization use case as setBetaRaw.
func (m *mapCore) setUnusedRaw(t *stm.Transaction, d DartID, unused bool) {
	if unused {
		m.darts.release(t, d)
	} else {
		m.darts.claim(t, d)
	}
}
