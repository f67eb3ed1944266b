package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/streetroute/internal/server"
	"github.com/katalvlaran/streetroute/internal/service"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleKey     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	styleValue   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = " → "
)

// emit writes out in format to path, or to c.out when path is empty.
func (c *CLI) emit(format, path string, out *service.Outcome) error {
	resp := server.NewRouteResponse(out)
	w := c.out
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(resp)
	case "yaml":
		return writeYAML(w, resp)
	case "text", "":
		writeText(w, resp)

		return nil
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// writeYAML emits v with its JSON field names.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()

	return enc.Encode(generic)
}

func writeText(w io.Writer, r server.RouteResponse) {
	title := strings.ReplaceAll(r.Mode, "_", " ") + " route"
	fmt.Fprintf(w, "%s %s\n", styleTitle.Render(iconSuccess), styleTitle.Render(title))
	kv := func(k, v string) {
		fmt.Fprintf(w, "  %s %s\n", styleKey.Render(k), styleValue.Render(v))
	}

	kv("Run", r.RunID)
	start := r.Start
	if r.StartRelocated {
		start += " (relocated)"
	}
	kv("Start", start)
	kv("Weight", fmt.Sprintf("%g", r.Weight))
	kv("Hops", fmt.Sprintf("%d", r.Stats.Hops))
	kv("Route", strings.Join(r.Route, iconArrow))
	if len(r.Duplications) > 0 {
		kv("Duplicated", fmt.Sprintf("%d edges, weight %g", r.Stats.DuplicatedEdges, r.Stats.DuplicatedWeight))
	}
	if r.Tour != nil {
		kv("Tour", fmt.Sprintf("%s, %d stops, %d 2-opt moves", r.Tour.Algorithm, r.Stats.Stops, r.Tour.TwoOptMoves))
	}
	if r.WasDisconnected {
		kv("Dropped", fmt.Sprintf("%d nodes", len(r.DroppedNodes)))
	}
	if r.Expanded != nil {
		kv("Turn by turn", strings.Join(r.Expanded.Route, iconArrow))
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", styleWarning.Render(iconWarning), warn)
	}
}
