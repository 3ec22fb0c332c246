package sim

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ridepool/internal/types"
)

// ErrNotFound is any 404 from the API: no driver nearby, no feasible
// route or an unreachable target.
var ErrNotFound = errors.New("not found")

type Client struct {
	BaseURL string
	Http    *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		BaseURL: url,
		Http: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// PlaceDrivers registers drivers with the server.
func (c *Client) PlaceDrivers(reqs []types.PlaceRequest) error {
	return c.post("/api/drivers", reqs, http.StatusCreated, nil)
}

// Reset clears every placed driver and rider on the server.
func (c *Client) Reset() error {
	return c.post("/api/reset", nil, http.StatusNoContent, nil)
}

// RequestPath asks the server for the shortest path between two nodes.
func (c *Client) RequestPath(from, to string) (types.PathResponse, error) {
	var result types.PathResponse
	u := fmt.Sprintf("%s/api/path?from=%s&to=%s", c.BaseURL, url.QueryEscape(from), url.QueryEscape(to))

	resp, err := c.Http.Get(u)
	if err != nil {
		return result, err
	}
	// close the connection after function ends
	defer resp.Body.Close()

	if err := checkStatus(resp, http.StatusOK); err != nil {
		return result, err
	}
	return result, json.NewDecoder(resp.Body).Decode(&result)
}

// RequestMatch asks for the closest driver of a rider standing on node.
func (c *Client) RequestMatch(riderID, node string) (types.MatchResponse, error) {
	var result types.MatchResponse
	req := types.MatchRequest{Rider: types.PlaceRequest{ID: riderID, Node: node}}
	err := c.post("/api/match", req, http.StatusOK, &result)
	return result, err
}

// RequestPool asks for a shared route of riders to destination.
func (c *Client) RequestPool(riders []types.PlaceRequest, destination string) (types.RouteResponse, error) {
	var result types.RouteResponse
	req := types.PoolRequest{Riders: riders, Destination: destination}
	err := c.post("/api/pool", req, http.StatusOK, &result)
	return result, err
}

func (c *Client) post(path string, body any, want int, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	resp, err := c.Http.Post(c.BaseURL+path, "application/json", &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, want); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func checkStatus(resp *http.Response, want int) error {
	if resp.StatusCode == want {
		return nil
	}
	var e types.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&e)
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, e.Error)
	}
	return fmt.Errorf("server returned status %d: %s", resp.StatusCode, e.Error)
}
