package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"ridepool/internal/graph"
	"ridepool/internal/navigation"
)

func TestOptimizePoolPicksCheaperOrder(t *testing.T) {
	f := lineFixture(t)
	a, b := f.rider(t, "a", "A"), f.rider(t, "b", "B")

	// B is listed first so the cheaper order is not simply input order
	route, err := f.m.OptimizePool(context.Background(), b, a, "X", []Driver{f.driver(t, "d", "D")})
	if err != nil {
		t.Fatalf("OptimizePool returned error: %v", err)
	}
	if route.Cost != 3 {
		t.Errorf("expected cost 3, got %v", route.Cost)
	}
	if !slices.Equal(route.Path, []string{"D", "A", "B", "X"}) {
		t.Errorf("unexpected path %v", route.Path)
	}
	if route.Order[0].ID != "a" || route.Order[1].ID != "b" {
		t.Errorf("unexpected pickup order %s, %s", route.Order[0].ID, route.Order[1].ID)
	}
	if len(route.Segments) != 3 || route.Driver.ID != "d" {
		t.Errorf("unexpected route shape: %d segments, driver %s", len(route.Segments), route.Driver.ID)
	}
	if v := route.Visited(); len(v) == 0 || v[0] != "D" {
		t.Errorf("unexpected combined trace %v", v)
	}
}

func TestOptimizePoolMatchesBruteForce(t *testing.T) {
	f := gridFixture(t, 6)
	drivers := []Driver{
		f.driver(t, "d1", "0-0"),
		f.driver(t, "d2", "5-5"),
		f.driver(t, "d3", "0-5"),
		f.driver(t, "d4", "3-2"),
	}
	cases := [][3]string{{"1-1", "4-4", "2-5"}, {"5-0", "0-3", "3-3"}, {"2-2", "2-3", "0-0"}, {"4-1", "1-4", "5-5"}}

	for _, tc := range cases {
		t.Run(fmt.Sprint(tc), func(t *testing.T) {
			ctx := context.Background()
			a, b := f.rider(t, "a", tc[0]), f.rider(t, "b", tc[1])
			dest := tc[2]

			route, err := f.m.OptimizePool(ctx, a, b, dest, drivers)
			if err != nil {
				t.Fatalf("OptimizePool returned error: %v", err)
			}

			ma, err := f.m.MatchDriver(ctx, a, drivers)
			if err != nil {
				t.Fatalf("MatchDriver(a) returned error: %v", err)
			}
			mb, err := f.m.MatchDriver(ctx, b, drivers)
			if err != nil {
				t.Fatalf("MatchDriver(b) returned error: %v", err)
			}

			dist := func(s, d string) float64 { return navigation.ShortestPath(f.g, s, d).Distance }
			want := -1.0
			for _, d := range []Driver{ma.Driver, mb.Driver} {
				for _, order := range [][2]string{{tc[0], tc[1]}, {tc[1], tc[0]}} {
					cost := dist(d.Location, order[0]) + dist(order[0], order[1]) + dist(order[1], dest)
					if want < 0 || cost < want {
						want = cost
					}
				}
			}
			if route.Cost != want {
				t.Errorf("expected minimum cost %v, got %v", want, route.Cost)
			}

			var sum float64
			for i := 0; i+1 < len(route.Path); i++ {
				sum += edgeWeight(f.g, route.Path[i], route.Path[i+1])
			}
			if sum != route.Cost {
				t.Errorf("path %v weighs %v but cost is %v", route.Path, sum, route.Cost)
			}
			if route.Path[0] != route.Driver.Location || route.Path[len(route.Path)-1] != dest {
				t.Errorf("path %v does not run from driver to destination", route.Path)
			}
		})
	}
}

func edgeWeight(g *graph.Graph, from, to string) float64 {
	best := -1.0
	for _, nb := range g.Neighbors(from) {
		if nb.ID == to && (best < 0 || nb.Weight < best) {
			best = nb.Weight
		}
	}
	return best
}

func TestOptimizeRouteSingleRider(t *testing.T) {
	f := lineFixture(t)
	route, err := f.m.OptimizeRoute(context.Background(), []Rider{f.rider(t, "a", "B")}, "E", []Driver{f.driver(t, "d", "A")})
	if err != nil {
		t.Fatalf("OptimizeRoute returned error: %v", err)
	}
	if route.Cost != 3 || !slices.Equal(route.Path, []string{"A", "B", "X", "E"}) {
		t.Errorf("unexpected route %v at %v", route.Path, route.Cost)
	}
}

func TestOptimizeRouteThreeRiders(t *testing.T) {
	f := lineFixture(t)
	riders := []Rider{f.rider(t, "x", "X"), f.rider(t, "a", "A"), f.rider(t, "b", "B")}
	route, err := f.m.OptimizeRoute(context.Background(), riders, "E", []Driver{f.driver(t, "d", "D")})
	if err != nil {
		t.Fatalf("OptimizeRoute returned error: %v", err)
	}
	if route.Cost != 4 || !slices.Equal(route.Path, []string{"D", "A", "B", "X", "E"}) {
		t.Errorf("unexpected route %v at %v", route.Path, route.Cost)
	}
}

func TestOptimizePoolSharedPickup(t *testing.T) {
	f := lineFixture(t)
	route, err := f.m.OptimizePool(context.Background(), f.rider(t, "a", "A"), f.rider(t, "b", "A"), "X", []Driver{f.driver(t, "d", "D")})
	if err != nil {
		t.Fatalf("OptimizePool returned error: %v", err)
	}
	if route.Cost != 3 || !slices.Equal(route.Path, []string{"D", "A", "B", "X"}) {
		t.Errorf("unexpected route %v at %v", route.Path, route.Cost)
	}
}

func TestOptimizePoolRejectsPickupAtDestination(t *testing.T) {
	f := lineFixture(t)
	_, err := f.m.OptimizePool(context.Background(), f.rider(t, "a", "A"), f.rider(t, "b", "X"), "X", []Driver{f.driver(t, "d", "D")})
	if !errors.Is(err, ErrPickupAtDestination) {
		t.Fatalf("expected ErrPickupAtDestination, got %v", err)
	}
}

func TestOptimizePoolInfeasible(t *testing.T) {
	f := newFixture(t,
		[]graph.Node{{ID: "D", Lon: col(0)}, {ID: "A", Lon: col(1)}, {ID: "B", Lon: col(2)}, {ID: "Z", Lon: col(3)}, {ID: "Z2", Lon: col(4)}},
		[]graph.Link{
			{Source: "D", Target: "A", Length: 1},
			{Source: "A", Target: "B", Length: 1},
			{Source: "Z", Target: "Z2", Length: 1},
		},
	)
	_, err := f.m.OptimizePool(context.Background(), f.rider(t, "a", "A"), f.rider(t, "b", "B"), "Z", []Driver{f.driver(t, "d", "D")})
	if !errors.Is(err, ErrInfeasiblePool) {
		t.Fatalf("expected ErrInfeasiblePool, got %v", err)
	}
}

func TestOptimizePoolNoDrivers(t *testing.T) {
	f := lineFixture(t)
	_, err := f.m.OptimizePool(context.Background(), f.rider(t, "a", "A"), f.rider(t, "b", "B"), "X", nil)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestOptimizeRouteLimits(t *testing.T) {
	f := lineFixture(t)
	drivers := []Driver{f.driver(t, "d", "D")}
	if _, err := f.m.OptimizeRoute(context.Background(), nil, "X", drivers); !errors.Is(err, ErrNoPickups) {
		t.Errorf("expected ErrNoPickups, got %v", err)
	}
	riders := []Rider{f.rider(t, "1", "A"), f.rider(t, "2", "A"), f.rider(t, "3", "B"), f.rider(t, "4", "B")}
	if _, err := f.m.OptimizeRoute(context.Background(), riders, "X", drivers); !errors.Is(err, ErrTooManyPickups) {
		t.Errorf("expected ErrTooManyPickups, got %v", err)
	}
}

func TestPermutations(t *testing.T) {
	got := permutations(3)
	want := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d permutations, got %d", len(want), len(got))
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("permutation %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestJoinPaths(t *testing.T) {
	segs := []navigation.PathResult{
		{Path: []string{"a", "b"}},
		{Path: []string{"b"}},
		{Path: []string{"b", "c", "d"}},
	}
	if got := joinPaths(segs); !slices.Equal(got, []string{"a", "b", "c", "d"}) {
		t.Errorf("unexpected joined path %v", got)
	}
}

func TestOptimizePoolRejectsDuplicateRiderID(t *testing.T) {
	f := lineFixture(t)
	_, err := f.m.OptimizePool(context.Background(), f.rider(t, "x", "A"), f.rider(t, "x", "X"), "E", []Driver{f.driver(t, "d", "D")})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAssembleMissingLegIsInfeasible(t *testing.T) {
	f := lineFixture(t)
	d := f.driver(t, "d", "D")
	riders := []Rider{f.rider(t, "a", "A"), f.rider(t, "b", "X")}

	table := map[segment]navigation.PathResult{
		{"D", "A"}: navigation.ShortestPath(f.g, "D", "A"),
		{"X", "E"}: navigation.ShortestPath(f.g, "X", "E"),
	}
	if _, ok := assemble(table, d, riders, []int{0, 1}, "E"); ok {
		t.Fatal("route with an uncomputed A->X leg was accepted")
	}

	table[segment{"A", "X"}] = navigation.ShortestPath(f.g, "A", "X")
	route, ok := assemble(table, d, riders, []int{0, 1}, "E")
	if !ok {
		t.Fatal("complete route rejected")
	}
	if route.Cost != 4 || !slices.Equal(route.Path, []string{"D", "A", "B", "X", "E"}) {
		t.Errorf("unexpected route %v at %v", route.Path, route.Cost)
	}
}
