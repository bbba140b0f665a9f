package builder

import (
	"os"

	"gopkg.in/yaml.v3"
)

// GridConfig is the on-disk form of a GridSpec plus which generator and
// coordinate type to build with, loaded from a YAML file (SPEC_FULL.md
// builder configuration loading).
type GridConfig struct {
	Kind       string      `yaml:"kind"` // "unit_grid", "unit_triangles", "hex_grid", "tet_grid"
	Precision  string      `yaml:"precision"` // "f32" or "f64", defaults to f64
	NCells     []int       `yaml:"n_cells"`
	LenPerCell []float64   `yaml:"len_per_cell"`
	Lens       [][]float64 `yaml:"lens"`
	Origin     []float64   `yaml:"origin"`
}

// Spec extracts the GridSpec embedded in a GridConfig.
func (c GridConfig) Spec() GridSpec {
	return GridSpec{
		NCells:     c.NCells,
		LenPerCell: c.LenPerCell,
		Lens:       c.Lens,
		Origin:     c.Origin,
	}
}

// LoadGridConfig reads and parses a grid configuration file.
func LoadGridConfig(path string) (GridConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return GridConfig{}, err
	}
	var cfg GridConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return GridConfig{}, &Error{Kind: InvalidGridParameters, Msg: "malformed grid config: " + err.Error()}
	}
	return cfg, nil
}
