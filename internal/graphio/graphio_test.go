package graphio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/streetroute/core"
)

const squareYAML = `
nodes:
  - id: A
  - id: B
  - id: C
  - id: D
edges:
  - {from: A, to: B, weight: 1, key: north}
  - {from: B, to: C, weight: 1}
  - {from: C, to: D, weight: 1}
  - {from: D, to: A, weight: 1}
  - {from: A, to: C, weight: 1.4, directed: true}
start: A
`

func TestDecodeYAML_Build(t *testing.T) {
	doc, err := Decode(strings.NewReader(squareYAML), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "A", doc.Start)

	g, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, g.Vertices())
	assert.Equal(t, 5, g.EdgeCount())
	assert.InDelta(t, 5.4, g.TotalWeight(), 1e-12)

	edges := g.Edges()
	assert.Equal(t, "north", edges[0].Key)
	assert.False(t, edges[0].Directed)
	assert.True(t, edges[4].Directed)
}

func TestBuild_GreatCircleWeights(t *testing.T) {
	lat := func(v float64) *float64 { return &v }
	// One degree of latitude along a meridian.
	doc := &Document{
		Nodes: []NodeDoc{{ID: "S", Lat: lat(0), Lon: lat(0)}, {ID: "N", Lat: lat(1), Lon: lat(0)}},
		Edges: []EdgeDoc{{From: "S", To: "N"}},
	}
	g, err := doc.Build()
	require.NoError(t, err)
	want := EarthRadiusMeters * 3.141592653589793 / 180
	assert.InDelta(t, want, g.TotalWeight(), 1e-6)

	v, err := g.Vertex("N")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Metadata[MetaLat])

	d := GreatCircleMeters(s2.LatLngFromDegrees(0, 0), s2.LatLngFromDegrees(0, 0))
	assert.Zero(t, d)
}

func TestBuild_Errors(t *testing.T) {
	bad := 91.0
	zero := 0.0
	tests := map[string]struct {
		doc  Document
		want error
	}{
		"missing weight": {Document{Edges: []EdgeDoc{{From: "A", To: "B"}}}, ErrMissingWeight},
		"bad coordinate": {Document{Nodes: []NodeDoc{{ID: "A", Lat: &bad, Lon: &zero}}}, ErrBadCoordinate},
		"duplicate node": {Document{Nodes: []NodeDoc{{ID: "A"}, {ID: "A"}}}, ErrDuplicateNode},
		"empty endpoint": {Document{Edges: []EdgeDoc{{From: "", To: "B", Weight: &zero}}}, core.ErrEmptyVertexID},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tc.doc.Build()
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRoundTrip_AllFormats(t *testing.T) {
	doc, err := Decode(strings.NewReader(squareYAML), FormatYAML)
	require.NoError(t, err)
	g, err := doc.Build()
	require.NoError(t, err)

	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, FromGraph(g), f))
			back, err := Decode(&buf, f)
			require.NoError(t, err)
			h, err := back.Build()
			require.NoError(t, err)
			assert.Equal(t, g.Fingerprint(), h.Fingerprint())
		})
	}
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"nodes":[],"edges":[],"colour":"red"}`), FormatJSON)
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("nodes: []\nshape: round\n"), FormatYAML)
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("shape = \"round\"\n"), FormatTOML)
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("{}"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.toml")
	content := `
start = "A"

[[nodes]]
id = "A"

[[nodes]]
id = "B"

[[edges]]
from = "A"
to = "B"
weight = 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	doc, err := ReadFile(path)
	require.NoError(t, err)
	g, err := doc.Build()
	require.NoError(t, err)
	assert.Equal(t, 2.5, g.TotalWeight())

	_, err = ReadFile(filepath.Join(dir, "graph.xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
}
