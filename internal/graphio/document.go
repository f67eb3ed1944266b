// Package graphio reads and writes street-graph documents in JSON, YAML and
// TOML. A document lists nodes (optionally with coordinates) and edges
// (optionally keyed, weighted and one-way). Edges without a weight take the
// great-circle length between their endpoints in metres.
package graphio

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"github.com/katalvlaran/streetroute/core"
)

// Metadata keys under which node coordinates are stored on core vertices.
const (
	MetaLat = "lat"
	MetaLon = "lon"
)

// EarthRadiusMeters is the mean Earth radius used for edge lengths.
const EarthRadiusMeters = 6371008.8

var (
	// ErrMissingWeight is returned for an edge with neither a weight nor
	// coordinates on both endpoints.
	ErrMissingWeight = errors.New("graphio: edge has no weight and no coordinates")

	// ErrBadCoordinate is returned for a latitude or longitude out of range.
	ErrBadCoordinate = errors.New("graphio: coordinate out of range")

	// ErrDuplicateNode is returned when a node ID repeats.
	ErrDuplicateNode = errors.New("graphio: duplicate node")

	// ErrUnknownFormat is returned for an unsupported document format.
	ErrUnknownFormat = errors.New("graphio: unknown format")
)

// Document is the on-disk graph representation.
type Document struct {
	Directed bool      `json:"directed,omitempty" yaml:"directed,omitempty" toml:"directed,omitempty"`
	Nodes    []NodeDoc `json:"nodes" yaml:"nodes" toml:"nodes"`
	Edges    []EdgeDoc `json:"edges" yaml:"edges" toml:"edges"`

	// Start and Visit carry routing parameters alongside the graph.
	Start string   `json:"start,omitempty" yaml:"start,omitempty" toml:"start,omitempty"`
	Visit []string `json:"visit,omitempty" yaml:"visit,omitempty" toml:"visit,omitempty"`
}

// NodeDoc is one node. Lat and Lon are degrees.
type NodeDoc struct {
	ID  string   `json:"id" yaml:"id" toml:"id"`
	Lat *float64 `json:"lat,omitempty" yaml:"lat,omitempty" toml:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty" yaml:"lon,omitempty" toml:"lon,omitempty"`
}

// EdgeDoc is one street segment. Directed overrides Document.Directed.
type EdgeDoc struct {
	From     string   `json:"from" yaml:"from" toml:"from"`
	To       string   `json:"to" yaml:"to" toml:"to"`
	Weight   *float64 `json:"weight,omitempty" yaml:"weight,omitempty" toml:"weight,omitempty"`
	Key      string   `json:"key,omitempty" yaml:"key,omitempty" toml:"key,omitempty"`
	Directed *bool    `json:"directed,omitempty" yaml:"directed,omitempty" toml:"directed,omitempty"`
}

// Build converts the document into a graph. Nodes are added first in
// document order, then edges; edge endpoints not listed as nodes are
// created implicitly without coordinates.
func (d *Document) Build() (*core.Graph, error) {
	g := core.NewGraph(core.WithDirected(d.Directed))
	coords := make(map[string]s2.LatLng, len(d.Nodes))

	for i, n := range d.Nodes {
		if g.HasVertex(n.ID) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, n.ID)
		}
		if err := g.AddVertex(n.ID); err != nil {
			return nil, fmt.Errorf("graphio: node %d: %w", i, err)
		}
		if n.Lat == nil || n.Lon == nil {
			continue
		}
		if math.Abs(*n.Lat) > 90 || math.Abs(*n.Lon) > 180 {
			return nil, fmt.Errorf("%w: node %q (%g, %g)", ErrBadCoordinate, n.ID, *n.Lat, *n.Lon)
		}
		coords[n.ID] = s2.LatLngFromDegrees(*n.Lat, *n.Lon)
		_ = g.SetVertexMetadata(n.ID, MetaLat, *n.Lat)
		_ = g.SetVertexMetadata(n.ID, MetaLon, *n.Lon)
	}

	for i, e := range d.Edges {
		var w float64
		switch {
		case e.Weight != nil:
			w = *e.Weight
		default:
			a, okA := coords[e.From]
			b, okB := coords[e.To]
			if !okA || !okB {
				return nil, fmt.Errorf("%w: edge %d %s→%s", ErrMissingWeight, i, e.From, e.To)
			}
			w = GreatCircleMeters(a, b)
		}
		var opts []core.EdgeOption
		if e.Key != "" {
			opts = append(opts, core.WithEdgeKey(e.Key))
		}
		if e.Directed != nil {
			opts = append(opts, core.WithEdgeDirected(*e.Directed))
		}
		if _, err := g.AddEdge(e.From, e.To, w, opts...); err != nil {
			return nil, fmt.Errorf("graphio: edge %d %s→%s: %w", i, e.From, e.To, err)
		}
	}

	return g, nil
}

// GreatCircleMeters returns the surface distance between a and b.
func GreatCircleMeters(a, b s2.LatLng) float64 {
	return a.Distance(b).Radians() * EarthRadiusMeters
}

// FromGraph exports g. Every edge carries its weight and an explicit
// direction flag, so Build(FromGraph(g)) reproduces g's edges in order.
func FromGraph(g *core.Graph) *Document {
	doc := &Document{Directed: g.Directed()}
	for _, id := range g.Vertices() {
		n := NodeDoc{ID: id}
		if v, err := g.Vertex(id); err == nil {
			lat, okLat := v.Metadata[MetaLat].(float64)
			lon, okLon := v.Metadata[MetaLon].(float64)
			if okLat && okLon {
				n.Lat, n.Lon = &lat, &lon
			}
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, e := range g.Edges() {
		w, dir := e.Weight, e.Directed
		doc.Edges = append(doc.Edges, EdgeDoc{From: e.From, To: e.To, Weight: &w, Key: e.Key, Directed: &dir})
	}

	return doc
}
