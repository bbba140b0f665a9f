package builder

import (
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cmap"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/metrics"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// cubeOffsets are the 8 unit-cube corner coordinates a cell's faces and
// tetrahedra are defined against, corner i at (x,y,z) each in {0,1}.
var cubeOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// faceSpec is one polygonal face of a cell shape: a cyclic list of corner
// indices into cubeOffsets, tagged with the sub-volume ("group") it
// belongs to. A hex_grid cell has a single group (the whole hex is one
// volume); a tet_grid cell has 5 groups, one per tetrahedron.
type faceSpec struct {
	corners []int
	group   int
}

// hexFaces are the 6 quad faces of a hexahedral cell, one volume group.
var hexFaces = []faceSpec{
	{corners: []int{0, 1, 2, 3}, group: 0}, // bottom (z=0)
	{corners: []int{4, 7, 6, 5}, group: 0}, // top (z=1)
	{corners: []int{0, 4, 5, 1}, group: 0}, // front (y=0)
	{corners: []int{3, 2, 6, 7}, group: 0}, // back (y=1)
	{corners: []int{0, 3, 7, 4}, group: 0}, // left (x=0)
	{corners: []int{1, 5, 6, 2}, group: 0}, // right (x=1)
}

// tetPatternEven and tetPatternOdd are the two alternating 5-tetrahedron
// splits of a cube (four corner tetrahedra around one central one): which
// pattern a cell uses depends on the parity of x+y+z, so the internal
// diagonal cut alternates direction between face-adjacent cells and the
// resulting tet mesh stays conformal (spec.md §4.9).
var tetPatternEven = [5][4]int{
	{0, 1, 3, 4},
	{1, 2, 3, 6},
	{1, 4, 5, 6},
	{3, 4, 6, 7},
	{1, 3, 4, 6},
}

var tetPatternOdd = [5][4]int{
	{1, 2, 0, 5},
	{2, 3, 0, 7},
	{2, 5, 6, 7},
	{0, 4, 5, 7},
	{0, 2, 5, 7},
}

func tetFaces(pattern [5][4]int) []faceSpec {
	var faces []faceSpec
	for g, tet := range pattern {
		a, b, c, d := tet[0], tet[1], tet[2], tet[3]
		faces = append(faces,
			faceSpec{corners: []int{a, b, c}, group: g},
			faceSpec{corners: []int{a, d, b}, group: g},
			faceSpec{corners: []int{a, c, d}, group: g},
			faceSpec{corners: []int{b, d, c}, group: g},
		)
	}
	return faces
}

// matchFaceEdges returns, for every reversed-direction edge coincidence
// between face1 and face2 (ignoring axes where mask is false), the pair
// of local dart indices (k1, k2) that should be linked. Two faces that
// are the same triangle/quad (just differently rotated) produce one pair
// per edge; two faces of the same convex cell sharing only one edge
// produce a single pair.
func matchFaceEdges(face1, face2 []int, mask [3]bool) [][2]int {
	eq := func(a, b [3]int) bool {
		for i := 0; i < 3; i++ {
			if mask[i] && a[i] != b[i] {
				return false
			}
		}
		return true
	}
	edge := func(face []int, k int) (a, b [3]int) {
		n := len(face)
		return cubeOffsets[face[k]], cubeOffsets[face[(k+1)%n]]
	}
	var pairs [][2]int
	for k1 := 0; k1 < len(face1); k1++ {
		a1, b1 := edge(face1, k1)
		for k2 := 0; k2 < len(face2); k2++ {
			a2, b2 := edge(face2, k2)
			if eq(a1, b2) && eq(b1, a2) {
				pairs = append(pairs, [2]int{k1, k2})
			}
		}
	}
	return pairs
}

// buildCellGrid assembles an nx*ny*nz grid of identical cell shapes
// (either a single hexahedron or a 5-tetrahedron split), wiring β1 within
// each face, β2 between faces of the same sub-volume sharing an edge, and
// β3 between faces of different sub-volumes (within a cell or across
// neighboring cells) that coincide fully.
func buildCellGrid[T geometry.CoordsFloat](cellShapeAt func(x, y, z int) []faceSpec, spec GridSpec) (*cmap.Map3[T], error) {
	if err := spec.validate(3); err != nil {
		return nil, err
	}
	nx, ny, nz := spec.NCells[0], spec.NCells[1], spec.NCells[2]
	xs := axisLens(nx, axisOf(spec.Lens, 0), axisUniform(spec.LenPerCell, 0))
	ys := axisLens(ny, axisOf(spec.Lens, 1), axisUniform(spec.LenPerCell, 1))
	zs := axisLens(nz, axisOf(spec.Lens, 2), axisUniform(spec.LenPerCell, 2))
	ox, oy, oz := originAt(spec.Origin, 0), originAt(spec.Origin, 1), originAt(spec.Origin, 2)

	cx, cy, cz := make([]T, nx+1), make([]T, ny+1), make([]T, nz+1)
	cx[0] = T(ox)
	for i := 0; i < nx; i++ {
		cx[i+1] = cx[i] + T(xs[i])
	}
	cy[0] = T(oy)
	for i := 0; i < ny; i++ {
		cy[i+1] = cy[i] + T(ys[i])
	}
	cz[0] = T(oz)
	for i := 0; i < nz; i++ {
		cz[i+1] = cz[i] + T(zs[i])
	}

	faces := cellShapeAt(0, 0, 0) // every cell shares the same face layout
	faceOffset := make([]int, len(faces))
	dartsPerCell := 0
	for i, f := range faces {
		faceOffset[i] = dartsPerCell
		dartsPerCell += len(f.corners)
	}

	cellIndex := func(x, y, z int) int { return (z*ny+y)*nx + x }
	total := dartsPerCell * nx * ny * nz
	m := cmap.NewMap3[T](total)
	ids := m.ReserveDarts(total)

	dartAt := func(x, y, z, faceIdx, k int) cmap.DartID {
		return ids[dartsPerCell*cellIndex(x, y, z)+faceOffset[faceIdx]+k]
	}

	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					cellFaces := cellShapeAt(x, y, z)

					for fi, f := range cellFaces {
						n := len(f.corners)
						for k := 0; k < n; k++ {
							if err := m.LinkBeta(t, 1, dartAt(x, y, z, fi, k), dartAt(x, y, z, fi, (k+1)%n)); err != nil {
								return err
							}
						}
					}

					full := [3]bool{true, true, true}
					for fi1 := 0; fi1 < len(cellFaces); fi1++ {
						for fi2 := fi1 + 1; fi2 < len(cellFaces); fi2++ {
							f1, f2 := cellFaces[fi1], cellFaces[fi2]
							pairs := matchFaceEdges(f1.corners, f2.corners, full)
							if f1.group == f2.group {
								for _, p := range pairs {
									if err := m.LinkBeta(t, 2, dartAt(x, y, z, fi1, p[0]), dartAt(x, y, z, fi2, p[1])); err != nil {
										return err
									}
								}
							} else if len(pairs) == len(f1.corners) {
								for _, p := range pairs {
									if err := m.LinkBeta(t, 3, dartAt(x, y, z, fi1, p[0]), dartAt(x, y, z, fi2, p[1])); err != nil {
										return err
									}
								}
							}
						}
					}

					type neighborAxis struct {
						nx2, ny2, nz2 int
						axis          int
						mask          [3]bool
						inBounds      bool
					}
					neighbors := []neighborAxis{
						{x + 1, y, z, 0, [3]bool{false, true, true}, x+1 < nx},
						{x, y + 1, z, 1, [3]bool{true, false, true}, y+1 < ny},
						{x, y, z + 1, 2, [3]bool{true, true, false}, z+1 < nz},
					}
					// only faces on the shared plane (offset 1 here, 0 in the neighbor) can coincide
					onPlane := func(corners []int, axis, off int) bool {
						for _, c := range corners {
							if cubeOffsets[c][axis] != off {
								return false
							}
						}
						return true
					}
					for _, nb := range neighbors {
						if !nb.inBounds {
							continue
						}
						nbFaces := cellShapeAt(nb.nx2, nb.ny2, nb.nz2)
						for fi1, f1 := range cellFaces {
							for fi2, f2 := range nbFaces {
								if !onPlane(f1.corners, nb.axis, 1) || !onPlane(f2.corners, nb.axis, 0) {
									continue
								}
								pairs := matchFaceEdges(f1.corners, f2.corners, nb.mask)
								if len(pairs) == len(f1.corners) {
									for _, p := range pairs {
										if err := m.LinkBeta(t, 3, dartAt(x, y, z, fi1, p[0]), dartAt(nb.nx2, nb.ny2, nb.nz2, fi2, p[1])); err != nil {
											return err
										}
									}
								}
							}
						}
					}
				}
			}
		}

		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					cellFaces := cellShapeAt(x, y, z)
					for fi, f := range cellFaces {
						for k, corner := range f.corners {
							d := dartAt(x, y, z, fi, k)
							vid := m.VertexID(t, d)
							if _, ok := m.Vertex(t, vid); ok {
								continue
							}
							off := cubeOffsets[corner]
							m.SetVertex(t, vid, geometry.Vertex3[T]{
								X: cx[x+off[0]], Y: cy[y+off[1]], Z: cz[z+off[2]],
							})
						}
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// HexGrid builds a regular hexahedral grid: nx*ny*nz hexes, each a single
// volume bounded by 6 quad faces (spec.md §4.9).
func HexGrid[T geometry.CoordsFloat](spec GridSpec) (*cmap.Map3[T], error) {
	timer := metrics.NewTimer()
	m, err := buildCellGrid[T](func(x, y, z int) []faceSpec { return hexFaces }, spec)
	if err != nil {
		return nil, err
	}
	timer.ObserveDurationVec(metrics.BuildDuration, m.InstanceID(), "hex_grid")
	return m, nil
}

// TetGrid builds a conformal tetrahedral grid by splitting each hex cell
// into 5 tetrahedra, alternating the split pattern by cell parity so the
// internal diagonal cuts align across shared faces (spec.md §4.9).
func TetGrid[T geometry.CoordsFloat](spec GridSpec) (*cmap.Map3[T], error) {
	timer := metrics.NewTimer()
	evenFaces := tetFaces(tetPatternEven)
	oddFaces := tetFaces(tetPatternOdd)
	m, err := buildCellGrid[T](func(x, y, z int) []faceSpec {
		if (x+y+z)%2 == 0 {
			return evenFaces
		}
		return oddFaces
	}, spec)
	if err != nil {
		return nil, err
	}
	timer.ObserveDurationVec(metrics.BuildDuration, m.InstanceID(), "tet_grid")
	return m, nil
}
