package graph

// Node is a location on the road network. X is the longitude and Y the
// latitude, matching the map files.
type Node struct {
	ID  string  `json:"id"`
	Lon float64 `json:"x"`
	Lat float64 `json:"y"`
}

// Link is an undirected road segment between two nodes.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Length float64 `json:"length"`
}

// Neighbor is one entry of a node's adjacency list.
type Neighbor struct {
	ID     string
	Weight float64
}
