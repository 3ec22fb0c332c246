package dispatch

import "errors"

var (
	// ErrNoMatch means no driver could reach the rider: the shortlist was
	// empty or every shortlisted driver was unreachable.
	ErrNoMatch = errors.New("no match")
	// ErrInfeasiblePool means every pickup ordering had an unreachable leg.
	ErrInfeasiblePool = errors.New("no feasible pooled route")
	// ErrPickupAtDestination rejects a pickup placed on the drop-off node.
	ErrPickupAtDestination = errors.New("pickup location equals destination")
	// ErrTooManyPickups guards the permutation search.
	ErrTooManyPickups = errors.New("too many pickups for one route")
	// ErrNoPickups is returned when a route is requested without riders.
	ErrNoPickups = errors.New("route needs at least one pickup")

	ErrUnknownNode = errors.New("unknown node")
	ErrNoCell      = errors.New("node has no coordinates")
	ErrDuplicateID = errors.New("duplicate id")
)
