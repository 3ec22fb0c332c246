package types

// format of placing a driver or rider on a node
type PlaceRequest struct {
	ID   string `json:"id,omitempty"`
	Node string `json:"node"`
}

// answer of a shortest path request
type PathResponse struct {
	Path      []string `json:"path"`
	Visited   []string `json:"visited"`
	Distance  *float64 `json:"distance"` // null when unreachable
	Reachable bool     `json:"reachable"`
}

// format of asking for the closest driver. A rider that was not placed
// before may be given inline with its node.
type MatchRequest struct {
	Rider PlaceRequest `json:"rider"`
}

type MatchResponse struct {
	RiderID  string       `json:"rider_id"`
	DriverID string       `json:"driver_id"`
	Radius   int          `json:"radius"`
	Fallback bool         `json:"fallback"`
	Path     PathResponse `json:"path"`
	Dispatch string       `json:"dispatch_id,omitempty"`
}

// format of asking for a shared route
type PoolRequest struct {
	Riders      []PlaceRequest `json:"riders"`
	Destination string         `json:"destination"`
}

type RouteResponse struct {
	DriverID    string   `json:"driver_id"`
	Pickups     []string `json:"pickups"` // rider ids in pickup order
	Destination string   `json:"destination"`
	Path        []string `json:"path"`
	Visited     []string `json:"visited"`
	Cost        float64  `json:"cost"`
	Dispatch    string   `json:"dispatch_id,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
