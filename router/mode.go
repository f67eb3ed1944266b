// File: mode.go
// Role: Mode enumeration and solver descriptions.

package router

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode indicates a Mode value outside the enumeration.
var ErrUnknownMode = errors.New("router: unknown solve mode")

// Mode selects the optimisation goal.
type Mode int

const (
	// ModeEdgeCoverage covers every edge at least once (Chinese postman).
	ModeEdgeCoverage Mode = iota

	// ModeNodeVisit visits every requested node once (metric TSP).
	ModeNodeVisit
)

// Modes lists every supported mode in declaration order.
func Modes() []Mode { return []Mode{ModeEdgeCoverage, ModeNodeVisit} }

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeEdgeCoverage:
		return "edge_coverage"
	case ModeNodeVisit:
		return "node_visit"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to a Mode. "cpp" and "tsp" are accepted aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "edge_coverage", "cpp":
		return ModeEdgeCoverage, nil
	case "node_visit", "tsp":
		return ModeNodeVisit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Info describes a solver for listings and help output.
type Info struct {
	Mode        Mode     `json:"-"`
	Key         string   `json:"mode"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Algorithm   string   `json:"algorithm"`
	UseCases    []string `json:"use_cases"`
}

// Describe returns the description of mode.
func Describe(mode Mode) (Info, error) {
	switch mode {
	case ModeEdgeCoverage:
		return Info{
			Mode:        mode,
			Key:         mode.String(),
			Name:        "Chinese Postman Problem",
			Description: "Traverse every street at least once with minimum total distance",
			Algorithm:   "largest component, minimum-weight eulerization, Hierholzer circuit",
			UseCases: []string{
				"Street sweeping",
				"Parking enforcement",
				"Walking mail delivery",
				"Pipeline inspection",
				"Snow plowing",
				"Garbage collection",
				"Utility meter reading",
			},
		}, nil
	case ModeNodeVisit:
		return Info{
			Mode:        mode,
			Key:         mode.String(),
			Name:        "Travelling Salesman Problem",
			Description: "Visit every requested point once with near-minimum total distance",
			Algorithm:   "all-pairs shortest paths, Christofides 1.5-approximation",
			UseCases: []string{
				"Package delivery",
				"Sales route planning",
				"Equipment installation visits",
				"Tourist attraction routing",
				"Warehouse picking",
				"Field service scheduling",
			},
		}, nil
	default:
		return Info{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
}

// DescribeAll returns the descriptions of all modes.
func DescribeAll() []Info {
	out := make([]Info, 0, len(Modes()))
	for _, m := range Modes() {
		info, _ := Describe(m)
		out = append(out, info)
	}

	return out
}
