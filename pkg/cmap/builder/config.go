// Package builder provides configuration-style constructors for maps,
// including the predefined grid generators (spec.md §4.9).
package builder

// GridSpec configures a grid generator. NCells must be supplied for every
// axis, together with at least one of LenPerCell and Lens; cell counts are
// not derived from lengths. Lens, when present, overrides LenPerCell with
// explicit non-uniform per-cell lengths.
type GridSpec struct {
	NCells     []int       // number of cells per axis (length 2 or 3)
	LenPerCell []float64   // uniform cell length per axis
	Lens       [][]float64 // explicit per-cell lengths per axis, overrides LenPerCell
	Origin     []float64   // grid origin, defaults to zero
}

func (s GridSpec) validate(dims int) error {
	if len(s.NCells) != dims {
		return &Error{Kind: MissingGridParameters, Msg: "need n_cells and one of len_per_cell/lens"}
	}
	supplied := 0
	if len(s.NCells) == dims {
		supplied++
	}
	if len(s.LenPerCell) == dims {
		supplied++
	}
	if len(s.Lens) == dims {
		supplied++
	}
	if supplied < 2 {
		return &Error{Kind: MissingGridParameters, Msg: "need n_cells and one of len_per_cell/lens"}
	}
	for _, n := range s.NCells {
		if n <= 0 {
			return &Error{Kind: InvalidGridParameters, Msg: "cell counts must be positive"}
		}
	}
	for _, l := range s.LenPerCell {
		if l <= 0 {
			return &Error{Kind: InvalidGridParameters, Msg: "cell lengths must be positive"}
		}
	}
	for _, axis := range s.Lens {
		for _, l := range axis {
			if l <= 0 {
				return &Error{Kind: InvalidGridParameters, Msg: "cell lengths must be positive"}
			}
		}
	}
	return nil
}

// axisLens returns the n per-cell lengths for one axis, using Lens if
// present, otherwise LenPerCell repeated n times.
func axisLens(n int, lens []float64, uniform float64) []float64 {
	if lens != nil {
		return lens
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = uniform
	}
	return out
}

func originAt(origin []float64, axis int) float64 {
	if axis < len(origin) {
		return origin[axis]
	}
	return 0
}
