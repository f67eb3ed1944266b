package telemetry

import "go.opentelemetry.io/otel/attribute"

const (
	AttrRunID     = "streetroute.run_id"
	AttrMode      = "streetroute.mode"
	AttrTraversal = "streetroute.traversal"

	AttrGraphNodes = "graph.nodes"
	AttrGraphEdges = "graph.edges"
	AttrStops      = "route.stops"

	AttrRouteWeight     = "route.weight"
	AttrRouteHops       = "route.hops"
	AttrDuplicatedEdges = "eulerize.duplicated_edges"
	AttrDisconnected    = "connectivity.was_disconnected"
)

// GraphAttributes describes the input graph.
func GraphAttributes(nodes, edges, stops int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.Int(AttrStops, stops),
	}
}

// RouteAttributes describes a solved route.
func RouteAttributes(weight float64, hops, duplicated int, disconnected bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64(AttrRouteWeight, weight),
		attribute.Int(AttrRouteHops, hops),
		attribute.Int(AttrDuplicatedEdges, duplicated),
		attribute.Bool(AttrDisconnected, disconnected),
	}
}

// RunAttributes identifies a solve run.
func RunAttributes(runID, mode string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunID, runID),
		attribute.String(AttrMode, mode),
	}
}
