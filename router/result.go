// File: result.go
// Role: Result and Stats returned by both pipelines.

package router

import (
	"time"

	"github.com/katalvlaran/streetroute/eulerize"
	"github.com/katalvlaran/streetroute/route"
	"github.com/katalvlaran/streetroute/shortestpath"
	"github.com/katalvlaran/streetroute/tsp"
)

// Result is the outcome of a solve.
type Result struct {
	Mode  Mode
	Route route.Route

	// Start is the node the route starts at; it differs from the requested
	// start when StartRelocated is set.
	Start          string
	StartRelocated bool

	// WasDisconnected reports that unreachable components were dropped.
	WasDisconnected bool

	// DroppedNodes lists graph nodes removed by the repair, sorted.
	DroppedNodes []string

	// DroppedStops lists requested node-visit stops removed by the repair.
	DroppedStops []string

	// Warnings holds human-readable notes about recoveries.
	Warnings []string

	// Plan is the eulerization plan (edge coverage only).
	Plan *eulerize.Plan

	// Tour carries construction details (node visit only).
	Tour *tsp.Tour

	// Matrix is the distance matrix the tour was built on (node visit only).
	Matrix *shortestpath.Matrix

	Stats Stats
}

// Weight returns the total route weight.
func (r *Result) Weight() float64 { return r.Route.Weight() }

// Stats summarises a solve.
type Stats struct {
	Nodes            int           `json:"nodes"`             // vertices after repair
	Edges            int           `json:"edges"`             // edges after repair, before copies
	Stops            int           `json:"stops"`             // node-visit stops, start included
	UnbalancedNodes  int           `json:"unbalanced_nodes"`  // odd or imbalanced vertices
	DuplicatedEdges  int           `json:"duplicated_edges"`  // copies added by eulerization
	DuplicatedWeight float64       `json:"duplicated_weight"` // their total weight
	Hops             int           `json:"hops"`              // route length in hops
	Elapsed          time.Duration `json:"elapsed"`
}
