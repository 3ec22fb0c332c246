package server

// GraphData is the map as sent to a UI.
type GraphData struct {
	Nodes []NodeData `json:"nodes"`
	Links []LinkData `json:"links"`
}

type NodeData struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type LinkData struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Length float64 `json:"length"`
}

func (s *Server) GraphData() GraphData {
	g := s.Session.Graph
	nodes := g.Nodes()
	links := g.Links()

	data := GraphData{
		Nodes: make([]NodeData, 0, len(nodes)),
		Links: make([]LinkData, 0, len(links)),
	}
	for _, n := range nodes {
		data.Nodes = append(data.Nodes, NodeData{ID: n.ID, X: n.Lon, Y: n.Lat})
	}
	for _, l := range links {
		data.Links = append(data.Links, LinkData{Source: l.Source, Target: l.Target, Length: l.Length})
	}
	return data
}
