package builder

import (
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cmap"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/metrics"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// UnitGrid builds a regular quadrilateral grid: nx*ny quads, 4 darts per
// cell, β images computed in closed form (spec.md §4.9). Dart d's β1
// successor is the next dart around its cell; β2 links a cell's shared
// edge dart to the matching dart of its neighbor, 0 at the grid boundary.
func UnitGrid[T geometry.CoordsFloat](spec GridSpec) (*cmap.Map2[T], error) {
	timer := metrics.NewTimer()
	if err := spec.validate(2); err != nil {
		return nil, err
	}
	nx, ny := spec.NCells[0], spec.NCells[1]
	xs := axisLens(nx, axisOf(spec.Lens, 0), axisUniform(spec.LenPerCell, 0))
	ys := axisLens(ny, axisOf(spec.Lens, 1), axisUniform(spec.LenPerCell, 1))
	ox, oy := originAt(spec.Origin, 0), originAt(spec.Origin, 1)

	total := 4 * nx * ny
	m := cmap.NewMap2[T](total)
	ids := m.ReserveDarts(total)

	// cumulative coordinates per grid line
	cx := make([]T, nx+1)
	cx[0] = T(ox)
	for i := 0; i < nx; i++ {
		cx[i+1] = cx[i] + T(xs[i])
	}
	cy := make([]T, ny+1)
	cy[0] = T(oy)
	for i := 0; i < ny; i++ {
		cy[i+1] = cy[i] + T(ys[i])
	}

	dartAt := func(x, y, corner int) cmap.DartID {
		c := y*nx + x
		return ids[4*c+corner]
	}

	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				d0, d1, d2, d3 := dartAt(x, y, 0), dartAt(x, y, 1), dartAt(x, y, 2), dartAt(x, y, 3)
				if err := m.LinkBeta(t, 1, d0, d1); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, d1, d2); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, d2, d3); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, d3, d0); err != nil {
					return err
				}

				if x+1 < nx {
					if err := m.LinkBeta(t, 2, d1, dartAt(x+1, y, 3)); err != nil {
						return err
					}
				}
				if y+1 < ny {
					if err := m.LinkBeta(t, 2, d2, dartAt(x, y+1, 0)); err != nil {
						return err
					}
				}
			}
		}

		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				corners := [4][2]int{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}}
				for corner, gp := range corners {
					d := dartAt(x, y, corner)
					vid := m.VertexID(t, d)
					if _, ok := m.Vertex(t, vid); !ok {
						m.SetVertex(t, vid, geometry.Vertex2[T]{X: cx[gp[0]], Y: cy[gp[1]]})
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	timer.ObserveDurationVec(metrics.BuildDuration, m.InstanceID(), "unit_grid")
	return m, nil
}

// UnitTriangles builds a regular triangular grid: each quad cell is split
// into 2 triangles sharing the diagonal from corner 0 to corner 2, 6
// darts per cell (spec.md §4.9).
func UnitTriangles[T geometry.CoordsFloat](spec GridSpec) (*cmap.Map2[T], error) {
	timer := metrics.NewTimer()
	if err := spec.validate(2); err != nil {
		return nil, err
	}
	nx, ny := spec.NCells[0], spec.NCells[1]
	xs := axisLens(nx, axisOf(spec.Lens, 0), axisUniform(spec.LenPerCell, 0))
	ys := axisLens(ny, axisOf(spec.Lens, 1), axisUniform(spec.LenPerCell, 1))
	ox, oy := originAt(spec.Origin, 0), originAt(spec.Origin, 1)

	total := 6 * nx * ny
	m := cmap.NewMap2[T](total)
	ids := m.ReserveDarts(total)

	cx := make([]T, nx+1)
	cx[0] = T(ox)
	for i := 0; i < nx; i++ {
		cx[i+1] = cx[i] + T(xs[i])
	}
	cy := make([]T, ny+1)
	cy[0] = T(oy)
	for i := 0; i < ny; i++ {
		cy[i+1] = cy[i] + T(ys[i])
	}

	// Triangle A (corners 0,1,2) uses local darts 0,1,2; triangle B
	// (corners 0,2,3) uses local darts 3,4,5. The diagonal is local dart
	// 2 (A's edge 2->0) paired with local dart 3 (B's edge 0->2).
	base := func(x, y int) cmap.DartID { return ids[6*(y*nx+x)] }
	dA := func(x, y, k int) cmap.DartID { return base(x, y) + cmap.DartID(k) }
	dB := func(x, y, k int) cmap.DartID { return base(x, y) + cmap.DartID(3+k) }

	err := stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				a0, a1, a2 := dA(x, y, 0), dA(x, y, 1), dA(x, y, 2)
				b0, b1, b2 := dB(x, y, 0), dB(x, y, 1), dB(x, y, 2)
				if err := m.LinkBeta(t, 1, a0, a1); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, a1, a2); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, a2, a0); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, b0, b1); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, b1, b2); err != nil {
					return err
				}
				if err := m.LinkBeta(t, 1, b2, b0); err != nil {
					return err
				}

				// shared diagonal: A's corner2->corner0 edge (a2) faces
				// B's corner0->corner2 edge (b0)
				if err := m.LinkBeta(t, 2, a2, b0); err != nil {
					return err
				}

				if x+1 < nx {
					// A's corner1->corner2 edge faces the neighbor's
					// corner3->corner0 edge
					if err := m.LinkBeta(t, 2, a1, dB(x+1, y, 2)); err != nil {
						return err
					}
				}
				if y+1 < ny {
					// B's corner2->corner3 edge faces the neighbor's
					// corner0->corner1 edge
					if err := m.LinkBeta(t, 2, b1, dA(x, y+1, 0)); err != nil {
						return err
					}
				}
			}
		}

		type cornerDart struct {
			d   cmap.DartID
			gx  int
			gy  int
		}
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				corners := []cornerDart{
					{dA(x, y, 0), x, y}, {dA(x, y, 1), x + 1, y}, {dA(x, y, 2), x + 1, y + 1},
					{dB(x, y, 0), x, y}, {dB(x, y, 1), x + 1, y + 1}, {dB(x, y, 2), x, y + 1},
				}
				for _, c := range corners {
					vid := m.VertexID(t, c.d)
					if _, ok := m.Vertex(t, vid); !ok {
						m.SetVertex(t, vid, geometry.Vertex2[T]{X: cx[c.gx], Y: cy[c.gy]})
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	timer.ObserveDurationVec(metrics.BuildDuration, m.InstanceID(), "unit_triangles")
	return m, nil
}

func axisOf(lens [][]float64, axis int) []float64 {
	if lens == nil {
		return nil
	}
	return lens[axis]
}

func axisUniform(lenPerCell []float64, axis int) float64 {
	if lenPerCell == nil {
		return 0
	}
	return lenPerCell[axis]
}
