package server

import (
	"github.com/katalvlaran/streetroute/internal/graphio"
	"github.com/katalvlaran/streetroute/internal/history"
	"github.com/katalvlaran/streetroute/internal/service"
	"github.com/katalvlaran/streetroute/router"
	"github.com/katalvlaran/streetroute/tsp"
)

// SolveRequest is the body of both route endpoints. Start and Nodes fall
// back to the graph document's start and visit fields.
type SolveRequest struct {
	Graph   *graphio.Document `json:"graph"`
	Start   string            `json:"start,omitempty"`
	Nodes   []string          `json:"nodes,omitempty"`
	Options service.Params    `json:"options"`
	Expand  bool              `json:"expand,omitempty"`
}

// ExpandRequest is the body of the expand endpoint.
type ExpandRequest struct {
	Graph     *graphio.Document `json:"graph"`
	Stops     []string          `json:"stops"`
	Traversal string            `json:"traversal,omitempty"`
}

// RouteResponse is a finished solve.
type RouteResponse struct {
	RunID           string            `json:"run_id"`
	Mode            string            `json:"mode"`
	Route           []string          `json:"route"`
	Edges           []string          `json:"edges,omitempty"`
	Weight          float64           `json:"weight"`
	Start           string            `json:"start"`
	StartRelocated  bool              `json:"start_relocated"`
	WasDisconnected bool              `json:"was_disconnected"`
	DroppedNodes    []string          `json:"dropped_nodes,omitempty"`
	DroppedStops    []string          `json:"dropped_stops,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
	Stats           router.Stats      `json:"stats"`
	Duplications    []DuplicationView `json:"duplications,omitempty"`
	Tour            *TourView         `json:"tour,omitempty"`
	Expanded        *ExpansionView    `json:"expanded,omitempty"`
}

// DuplicationView is one shortest path copied by eulerization.
type DuplicationView struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Nodes  []string `json:"nodes"`
	Edges  []string `json:"edges"`
	Weight float64  `json:"weight"`
}

// TourView describes how a node-visit tour was built.
type TourView struct {
	Algorithm          string  `json:"algorithm"`
	SpanningTreeWeight float64 `json:"spanning_tree_weight,omitempty"`
	MatchingWeight     float64 `json:"matching_weight,omitempty"`
	TwoOptMoves        int     `json:"two_opt_moves"`
	Reversed           bool    `json:"reversed"`
}

// ExpansionView is a turn-by-turn route with stop positions.
type ExpansionView struct {
	Route     []string `json:"route"`
	Edges     []string `json:"edges"`
	Weight    float64  `json:"weight"`
	Waypoints []int    `json:"waypoints"`
}

// RunList is a page of run history.
type RunList struct {
	Runs   []*history.Run `json:"runs"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// NewRouteResponse flattens an outcome for JSON output.
func NewRouteResponse(out *service.Outcome) RouteResponse {
	res := out.Result
	resp := RouteResponse{
		RunID:           out.RunID,
		Mode:            res.Mode.String(),
		Route:           res.Route.Nodes(),
		Edges:           res.Route.Edges(),
		Weight:          res.Weight(),
		Start:           res.Start,
		StartRelocated:  res.StartRelocated,
		WasDisconnected: res.WasDisconnected,
		DroppedNodes:    res.DroppedNodes,
		DroppedStops:    res.DroppedStops,
		Warnings:        res.Warnings,
		Stats:           res.Stats,
	}
	if res.Plan != nil {
		for _, d := range res.Plan.Duplications {
			resp.Duplications = append(resp.Duplications, DuplicationView{
				From: d.From, To: d.To, Nodes: d.Nodes, Edges: d.Edges, Weight: d.Weight,
			})
		}
	}
	if res.Tour != nil {
		resp.Tour = &TourView{
			Algorithm:          res.Tour.Algorithm.String(),
			SpanningTreeWeight: res.Tour.SpanningTreeWeight,
			MatchingWeight:     res.Tour.MatchingWeight,
			TwoOptMoves:        res.Tour.TwoOptMoves,
			Reversed:           res.Tour.Reversed,
		}
	}
	if out.Expansion != nil {
		v := NewExpansionView(*out.Expansion)
		resp.Expanded = &v
	}

	return resp
}

// NewExpansionView flattens an expansion for JSON output.
func NewExpansionView(x tsp.Expansion) ExpansionView {
	return ExpansionView{
		Route:     x.Route.Nodes(),
		Edges:     x.Route.Edges(),
		Weight:    x.Route.Weight(),
		Waypoints: x.Waypoints,
	}
}
