// Package router composes the routing stages into the two solve pipelines.
//
//	ModeEdgeCoverage: connectivity.Repair → eulerize.Eulerize → euler.ExtractCircuit
//	ModeNodeVisit:    shortestpath.AllPairs → tsp.Build (→ tsp.ExpandRoute via Expand)
//
// Mode is a closed enumeration; Solve dispatches on it exhaustively and
// rejects unknown values. Each call is a pure function of its inputs: the
// graph is never mutated and no state is kept between calls. The only
// internal parallelism is the all-pairs shortest-path stage.
//
// Recoveries that are not errors, such as dropping unreachable components or
// moving the start node, are reported in Result.Warnings and the matching
// Result flags.
package router
