package geo

import "fmt"

// NewGrid builds the grid named in configuration: "h3" uses resolution,
// "hex" uses size.
func NewGrid(kind string, resolution int, size float64) (Grid, error) {
	switch kind {
	case "h3", "":
		return H3Grid{Resolution: resolution}, nil
	case "hex":
		if size <= 0 {
			return nil, fmt.Errorf("hex grid size must be positive, got %g", size)
		}
		return HexGrid{Size: size}, nil
	}
	return nil, fmt.Errorf("unknown grid %q", kind)
}
