package geo

import "math"

// HexGrid is a flat pointy-top hexagon tiling in axial coordinates where
// longitude is x and latitude is y. Size is the hexagon radius in degrees.
// It has no poles or pentagons, which makes ring sizes exact: a disk of
// radius k always holds 3k(k+1)+1 cells.
type HexGrid struct {
	Size float64
}

// HexCell packs axial coordinates into a CellID.
func HexCell(q, r int) CellID {
	return CellID(uint64(uint32(int32(q)))<<32 | uint64(uint32(int32(r))))
}

// Axial unpacks a CellID produced by HexCell.
func Axial(c CellID) (q, r int) {
	return int(int32(uint32(uint64(c) >> 32))), int(int32(uint32(uint64(c))))
}

func (g HexGrid) CellFor(lat, lon float64) CellID {
	fq := (math.Sqrt(3)/3*lon - lat/3) / g.Size
	fr := (2.0 / 3 * lat) / g.Size
	return HexCell(cubeRound(fq, fr))
}

func cubeRound(fq, fr float64) (int, int) {
	fs := -fq - fr
	q, r, s := math.Round(fq), math.Round(fr), math.Round(fs)
	dq, dr, ds := math.Abs(q-fq), math.Abs(r-fr), math.Abs(s-fs)
	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}
	return int(q), int(r)
}

func (g HexGrid) Disk(cell CellID, k int) []CellID {
	if k < 0 {
		return nil
	}
	q0, r0 := Axial(cell)
	out := make([]CellID, 0, 3*k*(k+1)+1)
	for dq := -k; dq <= k; dq++ {
		for dr := max(-k, -dq-k); dr <= min(k, -dq+k); dr++ {
			out = append(out, HexCell(q0+dq, r0+dr))
		}
	}
	return out
}

