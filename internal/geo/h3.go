package geo

import "github.com/uber/h3-go/v4"

// DefaultResolution gives cells of roughly 0.1 km² which suits city
// driver placement.
const DefaultResolution = 9

// H3Grid is a Grid backed by Uber's H3 hexagonal index.
type H3Grid struct {
	Resolution int
}

func (g H3Grid) CellFor(lat, lon float64) CellID {
	return CellID(h3.LatLngToCell(h3.NewLatLng(lat, lon), g.Resolution))
}

func (g H3Grid) Disk(cell CellID, k int) []CellID {
	disk := h3.Cell(cell).GridDisk(k)
	out := make([]CellID, len(disk))
	for i, c := range disk {
		out[i] = CellID(c)
	}
	return out
}
