// Package cmap implements the combinatorial map engine: dart allocation,
// β-function storage, i-cell identification, orbit traversal, and the
// sew/unsew operations that keep attributes coherent with topology
// (spec.md §3-§4.8).
package cmap

import "github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cellid"

// DartID identifies a dart. The zero value is the null dart: it is never
// part of any orbit and every β function fixes it (spec.md §3).
type DartID = cellid.DartID

// NullDart is the absorbing, non-existent dart.
const NullDart = cellid.NullDart
