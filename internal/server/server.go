package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"ridepool/internal/dispatch"
	"ridepool/internal/geo"
	"ridepool/internal/navigation"
	"ridepool/internal/store"
	"ridepool/internal/types"
)

type Server struct {
	Session *dispatch.Session
	Matcher *dispatch.Matcher
	Store   *store.DB // optional
	Hub     *Hub

	jobs chan job
}

func NewServer(session *dispatch.Session, matcher *dispatch.Matcher, db *store.DB, hub *Hub) *Server {
	return &Server{
		Session: session,
		Matcher: matcher,
		Store:   db,
		Hub:     hub,
		// set the limit of buffered requests to 100
		jobs: make(chan job, 100),
	}
}

// Routes registers every endpoint on a new router.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/graph", s.HandleGraph).Methods(http.MethodGet)
	api.HandleFunc("/path", s.HandlePath).Methods(http.MethodGet)
	api.HandleFunc("/drivers", s.HandleListDrivers).Methods(http.MethodGet)
	api.HandleFunc("/drivers", s.HandlePlaceDrivers).Methods(http.MethodPost)
	api.HandleFunc("/drivers/{id}", s.HandleRemoveDriver).Methods(http.MethodDelete)
	api.HandleFunc("/riders", s.HandleListRiders).Methods(http.MethodGet)
	api.HandleFunc("/riders", s.HandlePlaceRiders).Methods(http.MethodPost)
	api.HandleFunc("/riders/{id}", s.HandleRemoveRider).Methods(http.MethodDelete)
	api.HandleFunc("/match", s.HandleMatch).Methods(http.MethodPost)
	api.HandleFunc("/pool", s.HandlePool).Methods(http.MethodPost)
	api.HandleFunc("/reset", s.HandleReset).Methods(http.MethodPost)
	api.HandleFunc("/dispatches", s.HandleDispatches).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.HandleWebSocket)
	return r
}

// Handler wraps the routes with CORS for the given browser origins.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.Routes())
}

func (s *Server) HandleGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.GraphData())
}

func (s *Server) HandlePath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "'from' and 'to' are required")
		return
	}

	v, err := s.submit(r.Context(), func(ctx context.Context) (any, error) {
		return navigation.ShortestPath(s.Session.Graph, from, to), nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := NewPathResponse(v.(navigation.PathResult))
	s.Hub.Publish("path", resp)

	status := http.StatusOK
	if !resp.Reachable {
		status = http.StatusNotFound
	}
	writeJSON(w, status, resp)
}

func (s *Server) HandleListDrivers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Drivers())
}

func (s *Server) HandleListRiders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Session.Riders())
}

// HandlePlaceDrivers accepts a list of placements. Nothing is placed past
// the first invalid entry.
func (s *Server) HandlePlaceDrivers(w http.ResponseWriter, r *http.Request) {
	var reqs []types.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	placed := make([]dispatch.Driver, 0, len(reqs))
	for _, req := range reqs {
		d, err := s.Session.PlaceDriver(req.ID, req.Node)
		if err != nil {
			s.fail(w, err)
			return
		}
		placed = append(placed, d)
	}
	s.Hub.Publish("drivers", placed)
	writeJSON(w, http.StatusCreated, placed)
}

func (s *Server) HandlePlaceRiders(w http.ResponseWriter, r *http.Request) {
	var reqs []types.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	placed := make([]dispatch.Rider, 0, len(reqs))
	for _, req := range reqs {
		rd, err := s.Session.PlaceRider(req.ID, req.Node)
		if err != nil {
			s.fail(w, err)
			return
		}
		placed = append(placed, rd)
	}
	s.Hub.Publish("riders", placed)
	writeJSON(w, http.StatusCreated, placed)
}

func (s *Server) HandleRemoveDriver(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.Session.RemoveDriver(id) {
		writeError(w, http.StatusNotFound, "not_found", "driver "+id+" is not placed")
		return
	}
	s.Hub.Publish("driver_removed", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleRemoveRider(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.Session.RemoveRider(id) {
		writeError(w, http.StatusNotFound, "not_found", "rider "+id+" is not placed")
		return
	}
	s.Hub.Publish("rider_removed", id)
	w.WriteHeader(http.StatusNoContent)
}

// rider resolves a request to a placed rider, or to a transient one when
// the id is unknown and a node is given.
func (s *Server) rider(req types.PlaceRequest) (dispatch.Rider, error) {
	if req.ID != "" {
		if rd, ok := s.Session.Rider(req.ID); ok {
			return rd, nil
		}
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	return dispatch.NewRider(s.Session.Graph, s.Session.Index, id, req.Node)
}

func (s *Server) HandleMatch(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	rider, err := s.rider(req.Rider)
	if err != nil {
		s.fail(w, err)
		return
	}

	drivers := s.Session.Drivers()
	v, err := s.submit(r.Context(), func(ctx context.Context) (any, error) {
		return s.Matcher.MatchDriver(ctx, rider, drivers)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	m := v.(dispatch.Match)

	resp := types.MatchResponse{
		RiderID:  m.Rider.ID,
		DriverID: m.Driver.ID,
		Radius:   m.Radius,
		Fallback: m.Fallback,
		Path:     NewPathResponse(m.Path),
	}
	resp.Dispatch = s.record(r.Context(), store.Dispatch{
		Kind:     "match",
		DriverID: m.Driver.ID,
		RiderIDs: []string{m.Rider.ID},
		Path:     m.Path.Path,
		Cost:     m.Path.Distance,
	})
	s.Hub.Publish("match", resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HandlePool(w http.ResponseWriter, r *http.Request) {
	var req types.PoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if req.Destination == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "'destination' is required")
		return
	}
	if !s.Session.Graph.Has(req.Destination) {
		s.fail(w, dispatch.ErrUnknownNode)
		return
	}

	riders := make([]dispatch.Rider, 0, len(req.Riders))
	for _, pr := range req.Riders {
		rd, err := s.rider(pr)
		if err != nil {
			s.fail(w, err)
			return
		}
		riders = append(riders, rd)
	}

	drivers := s.Session.Drivers()
	v, err := s.submit(r.Context(), func(ctx context.Context) (any, error) {
		return s.Matcher.OptimizeRoute(ctx, riders, req.Destination, drivers)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	route := v.(dispatch.Route)

	resp := routeResponse(route)
	resp.Dispatch = s.record(r.Context(), store.Dispatch{
		Kind:        "pool",
		DriverID:    route.Driver.ID,
		RiderIDs:    resp.Pickups,
		Destination: route.Destination,
		Path:        route.Path,
		Cost:        route.Cost,
	})
	s.Hub.Publish("pool", resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) HandleReset(w http.ResponseWriter, r *http.Request) {
	s.Session.Reset()
	s.Hub.Publish("reset", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleDispatches(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusOK, []store.Dispatch{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// record writes a dispatch to the ledger and returns its id. Ledger
// failures are logged; the assignment itself already succeeded.
func (s *Server) record(ctx context.Context, d store.Dispatch) string {
	if s.Store == nil {
		return ""
	}
	saved, err := s.Store.Record(ctx, d)
	if err != nil {
		log.Printf("failed to record %s dispatch: %v", d.Kind, err)
		return ""
	}
	return saved.ID
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrNoMatch), errors.Is(err, geo.ErrNoCandidates):
		writeError(w, http.StatusNotFound, "no_match", err.Error())
	case errors.Is(err, dispatch.ErrInfeasiblePool):
		writeError(w, http.StatusNotFound, "no_route", err.Error())
	case errors.Is(err, dispatch.ErrUnknownNode),
		errors.Is(err, dispatch.ErrNoCell),
		errors.Is(err, dispatch.ErrDuplicateID),
		errors.Is(err, dispatch.ErrPickupAtDestination),
		errors.Is(err, dispatch.ErrTooManyPickups),
		errors.Is(err, dispatch.ErrNoPickups):
		writeError(w, http.StatusBadRequest, "invalid", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// client is gone
		log.Printf("request abandoned: %v", err)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// NewPathResponse converts a search result to its wire form. An
// unreachable distance becomes null.
func NewPathResponse(p navigation.PathResult) types.PathResponse {
	resp := types.PathResponse{
		Path:      p.Path,
		Visited:   p.Visited,
		Reachable: p.Reachable(),
	}
	if resp.Path == nil {
		resp.Path = []string{}
	}
	if resp.Visited == nil {
		resp.Visited = []string{}
	}
	if resp.Reachable {
		d := p.Distance
		resp.Distance = &d
	}
	return resp
}

func routeResponse(route dispatch.Route) types.RouteResponse {
	pickups := make([]string, len(route.Order))
	for i, r := range route.Order {
		pickups[i] = r.ID
	}
	return types.RouteResponse{
		DriverID:    route.Driver.ID,
		Pickups:     pickups,
		Destination: route.Destination,
		Path:        route.Path,
		Visited:     route.Visited(),
		Cost:        route.Cost,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: code})
}
