package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/cmap"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/geometry"
	"github.com/LIHPC-Computational-Geometry/honeycomb-go/pkg/ioformat"
)

func bytesReader(raw []byte) io.Reader { return bytes.NewReader(raw) }

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Read a flat-text map and re-check its topological invariants",
	Long: `Parses FILE, then walks every dart checking that β0/β1 form a
mutual inverse pair and that β2 (and β3, for 3-maps) are involutions with
no fixed points, i.e. that the loaded map is a well-formed combinatorial
map rather than just a syntactically valid file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		dim, err := ioformat.Dimension(raw)
		if err != nil {
			return fmt.Errorf("invalid map file: %w", err)
		}

		switch dim {
		case 2:
			m, err := ioformat.Read2[float64](bytesReader(raw))
			if err != nil {
				return fmt.Errorf("invalid map file: %w", err)
			}
			return reportInvariants(validateMap2(m))
		case 3:
			m, err := ioformat.Read3[float64](bytesReader(raw))
			if err != nil {
				return fmt.Errorf("invalid map file: %w", err)
			}
			return reportInvariants(validateMap3(m))
		default:
			return fmt.Errorf("unsupported map dimension %d", dim)
		}
	},
}

func reportInvariants(problems []string) error {
	if len(problems) == 0 {
		fmt.Println("✓ Map is well-formed")
		return nil
	}
	fmt.Printf("✗ Found %d invariant violation(s):\n", len(problems))
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	return fmt.Errorf("map failed validation")
}

// validateMap2 checks β0/β1 mutual-inverse and β2 involution laws across
// every non-free dart of a 2-map.
func validateMap2[T geometry.CoordsFloat](m *cmap.Map2[T]) []string {
	var problems []string
	for d := 1; d < m.NDarts(); d++ {
		dart := cmap.DartID(d)
		if m.IsUnused(dart) {
			continue
		}
		if b1 := m.Beta(1, dart); !b1.IsNull() {
			if m.Beta(0, b1) != dart {
				problems = append(problems, fmt.Sprintf("dart %d: β1 then β0 does not return to it", d))
			}
		}
		if b0 := m.Beta(0, dart); !b0.IsNull() {
			if m.Beta(1, b0) != dart {
				problems = append(problems, fmt.Sprintf("dart %d: β0 then β1 does not return to it", d))
			}
		}
		if b2 := m.Beta(2, dart); !b2.IsNull() {
			if m.Beta(2, b2) != dart {
				problems = append(problems, fmt.Sprintf("dart %d: β2 is not an involution", d))
			}
			if b2 == dart {
				problems = append(problems, fmt.Sprintf("dart %d: β2 has a fixed point", d))
			}
		}
	}
	return problems
}

// validateMap3 checks the same laws as validateMap2 plus β3 involution.
func validateMap3[T geometry.CoordsFloat](m *cmap.Map3[T]) []string {
	var problems []string
	for d := 1; d < m.NDarts(); d++ {
		dart := cmap.DartID(d)
		if m.IsUnused(dart) {
			continue
		}
		if b1 := m.Beta(1, dart); !b1.IsNull() {
			if m.Beta(0, b1) != dart {
				problems = append(problems, fmt.Sprintf("dart %d: β1 then β0 does not return to it", d))
			}
		}
		if b0 := m.Beta(0, dart); !b0.IsNull() {
			if m.Beta(1, b0) != dart {
				problems = append(problems, fmt.Sprintf("dart %d: β0 then β1 does not return to it", d))
			}
		}
		if b2 := m.Beta(2, dart); !b2.IsNull() {
			if m.Beta(2, b2) != dart {
				problems = append(problems, fmt.Sprintf("dart %d: β2 is not an involution", d))
			}
			if b2 == dart {
				problems = append(problems, fmt.Sprintf("dart %d: β2 has a fixed point", d))
			}
		}
		if b3 := m.Beta(3, dart); !b3.IsNull() {
			if m.Beta(3, b3) != dart {
				problems = append(problems, fmt.Sprintf("dart %d: β3 is not an involution", d))
			}
			if b3 == dart {
				problems = append(problems, fmt.Sprintf("dart %d: β3 has a fixed point", d))
			}
		}
	}
	return problems
}
