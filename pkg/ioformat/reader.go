package ioformat

import (
	"io"
	"strconv"
	"strings"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cmap"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// Dimension reports the dimension declared in a flat-text map's [meta]
// section, so a caller can pick Read2 or Read3 before committing to a
// coordinate type.
func Dimension(raw []byte) (int, error) {
	f, err := parse(string(raw))
	if err != nil {
		return 0, err
	}
	return f.dim, nil
}

// Read2 parses a flat-text 2-map from r. The betas, unused and vertex
// sections are applied with the raw (non-validating) setters, since a
// well-formed file already encodes a consistent involution.
func Read2[T geometry.CoordsFloat](r io.Reader) (*cmap.Map2[T], error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := parse(string(raw))
	if err != nil {
		return nil, err
	}
	if f.dim != 2 {
		return nil, &Error{Kind: BadMetaData, Msg: "expected dimension 2"}
	}
	if len(f.betas) != 3 {
		return nil, &Error{Kind: BadValue, Section: "betas", Msg: "a 2-map needs 3 beta rows (β0, β1, β2)"}
	}
	rows := make([][]uint32, 3)
	for i, line := range f.betas {
		row, err := betaRow(line, f.nDarts)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}

	m := cmap.NewMap2[T](f.nDarts)
	stm.Atomically(func(t *stm.Transaction) {
		for d := 1; d <= f.nDarts; d++ {
			// NewMap2's darts start unused; only those listed in [unused] stay so.
			m.SetUnusedRaw(t, cmap.DartID(d), false)
			for i := 0; i < 3; i++ {
				m.SetBetaRaw(t, i, cmap.DartID(d), cmap.DartID(rows[i][d]))
			}
		}
	})

	if err := applyUnused(m.SetUnusedRaw, f.unused, f.nDarts); err != nil {
		return nil, err
	}
	if err := readVertices2(m, f.vertices); err != nil {
		return nil, err
	}
	return m, nil
}

// Read3 parses a flat-text 3-map from r; see Read2.
func Read3[T geometry.CoordsFloat](r io.Reader) (*cmap.Map3[T], error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := parse(string(raw))
	if err != nil {
		return nil, err
	}
	if f.dim != 3 {
		return nil, &Error{Kind: BadMetaData, Msg: "expected dimension 3"}
	}
	if len(f.betas) != 4 {
		return nil, &Error{Kind: BadValue, Section: "betas", Msg: "a 3-map needs 4 beta rows (β0..β3)"}
	}
	rows := make([][]uint32, 4)
	for i, line := range f.betas {
		row, err := betaRow(line, f.nDarts)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}

	m := cmap.NewMap3[T](f.nDarts)
	stm.Atomically(func(t *stm.Transaction) {
		for d := 1; d <= f.nDarts; d++ {
			m.SetUnusedRaw(t, cmap.DartID(d), false)
			for i := 0; i < 4; i++ {
				m.SetBetaRaw(t, i, cmap.DartID(d), cmap.DartID(rows[i][d]))
			}
		}
	})

	if err := applyUnused(m.SetUnusedRaw, f.unused, f.nDarts); err != nil {
		return nil, err
	}
	if err := readVertices3(m, f.vertices); err != nil {
		return nil, err
	}
	return m, nil
}

func applyUnused(setUnused func(t *stm.Transaction, d cmap.DartID, unused bool), tokens []string, nDarts int) error {
	if tokens == nil {
		return nil
	}
	return stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		for _, tok := range tokens {
			v, perr := strconv.ParseUint(tok, 10, 32)
			if perr != nil || int(v) > nDarts {
				return &Error{Kind: BadValue, Section: "unused", Msg: "could not parse dart id"}
			}
			setUnused(t, cmap.DartID(v), true)
		}
		return nil
	})
}

func readVertices2[T geometry.CoordsFloat](m *cmap.Map2[T], lines []string) error {
	if lines == nil {
		return nil
	}
	return stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) != 3 {
				return &Error{Kind: BadValue, Section: "vertices", Msg: "expected id x y"}
			}
			id, perr1 := strconv.ParseUint(fields[0], 10, 32)
			x, perr2 := strconv.ParseFloat(fields[1], 64)
			y, perr3 := strconv.ParseFloat(fields[2], 64)
			if perr1 != nil || perr2 != nil || perr3 != nil {
				return &Error{Kind: BadValue, Section: "vertices", Msg: "could not parse vertex line"}
			}
			m.SetVertex(t, cmap.DartID(id), geometry.Vertex2[T]{X: T(x), Y: T(y)})
		}
		return nil
	})
}

func readVertices3[T geometry.CoordsFloat](m *cmap.Map3[T], lines []string) error {
	if lines == nil {
		return nil
	}
	return stm.AtomicallyWithErr(func(t *stm.Transaction) error {
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) != 4 {
				return &Error{Kind: BadValue, Section: "vertices", Msg: "expected id x y z"}
			}
			id, perr1 := strconv.ParseUint(fields[0], 10, 32)
			x, perr2 := strconv.ParseFloat(fields[1], 64)
			y, perr3 := strconv.ParseFloat(fields[2], 64)
			z, perr4 := strconv.ParseFloat(fields[3], 64)
			if perr1 != nil || perr2 != nil || perr3 != nil || perr4 != nil {
				return &Error{Kind: BadValue, Section: "vertices", Msg: "could not parse vertex line"}
			}
			m.SetVertex(t, cmap.DartID(id), geometry.Vertex3[T]{X: T(x), Y: T(y), Z: T(z)})
		}
		return nil
	})
}
