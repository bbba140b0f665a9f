package ioformat

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cmap"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/stm"
)

// FormatTag is the token written as the first field of [meta].
const FormatTag = "honeycomb-go"

// Write2 serializes a 2-map to the flat-text format (spec.md §4.10).
func Write2[T geometry.CoordsFloat](w io.Writer, m *cmap.Map2[T]) error {
	n := m.NDarts() - 1 // exclude the null dart slot from the reported count

	var b strings.Builder
	fmt.Fprintf(&b, "[meta]\n%s 2 %d\n\n", FormatTag, n)

	b.WriteString("[betas]\n")
	stm.Atomically(func(t *stm.Transaction) {
		for i := 0; i < 3; i++ {
			writeBetaRow(&b, m.NDarts(), func(d int) cmap.DartID { return m.BetaTransac(t, i, cmap.DartID(d)) })
		}
	})
	b.WriteString("\n[unused]\n")
	var unused []int
	for d := 1; d < m.NDarts(); d++ {
		if m.IsUnused(cmap.DartID(d)) {
			unused = append(unused, d)
		}
	}
	writeIntLine(&b, unused)

	b.WriteString("\n[vertices]\n")
	stm.Atomically(func(t *stm.Transaction) {
		for _, vid := range m.Vertices() {
			v, ok := m.Vertex(t, vid)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "%d %s %s\n", vid, formatFloat(float64(v.X)), formatFloat(float64(v.Y)))
		}
	})

	_, err := io.WriteString(w, b.String())
	return err
}

// Write3 serializes a 3-map to the flat-text format.
func Write3[T geometry.CoordsFloat](w io.Writer, m *cmap.Map3[T]) error {
	n := m.NDarts() - 1

	var b strings.Builder
	fmt.Fprintf(&b, "[meta]\n%s 3 %d\n\n", FormatTag, n)

	b.WriteString("[betas]\n")
	stm.Atomically(func(t *stm.Transaction) {
		for i := 0; i < 4; i++ {
			writeBetaRow(&b, m.NDarts(), func(d int) cmap.DartID { return m.BetaTransac(t, i, cmap.DartID(d)) })
		}
	})
	b.WriteString("\n[unused]\n")
	var unused []int
	for d := 1; d < m.NDarts(); d++ {
		if m.IsUnused(cmap.DartID(d)) {
			unused = append(unused, d)
		}
	}
	writeIntLine(&b, unused)

	b.WriteString("\n[vertices]\n")
	stm.Atomically(func(t *stm.Transaction) {
		for _, vid := range m.Vertices() {
			v, ok := m.Vertex(t, vid)
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "%d %s %s %s\n", vid, formatFloat(float64(v.X)), formatFloat(float64(v.Y)), formatFloat(float64(v.Z)))
		}
	})

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBetaRow(b *strings.Builder, nDarts int, image func(d int) cmap.DartID) {
	for d := 0; d < nDarts; d++ {
		if d > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%d", image(d))
	}
	b.WriteByte('\n')
}

func writeIntLine(b *strings.Builder, vals []int) {
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte('\n')
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
