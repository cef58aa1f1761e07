// Package output formats run reports for terminals and machine consumers.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/julianshen/codewiki/internal/model"
)

// Formatter renders a run report.
type Formatter interface {
	Format(r *model.Report) (string, error)
}

// New returns the formatter for the given name. Supported: "json",
// "markdown".
func New(name string) (Formatter, error) {
	switch name {
	case "json":
		return &JSONFormatter{}, nil
	case "markdown", "":
		return &MarkdownFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown report format %q", name)
}

// JSONFormatter emits the report as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(r *model.Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data) + "\n", nil
}

// MarkdownFormatter emits a human-readable summary with findings grouped by
// kind.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(r *model.Report) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Run %s\n\n", r.RunID)
	fmt.Fprintf(&sb, "- Units scanned: %d\n", r.Stats.UnitsScanned)
	fmt.Fprintf(&sb, "- Units excluded: %d\n", r.Stats.UnitsExcluded)
	fmt.Fprintf(&sb, "- Units unanalyzed: %d\n", r.Stats.UnitsUnanalyzed)
	fmt.Fprintf(&sb, "- Abstractions found: %d\n", r.Stats.AbstractionsFound)
	fmt.Fprintf(&sb, "- Abstractions surfaced: %d\n", r.Stats.AbstractionsSurfaced)
	fmt.Fprintf(&sb, "- Edges: %d\n", r.Stats.Edges)
	fmt.Fprintf(&sb, "- Documents: %d\n", r.Stats.Documents)
	fmt.Fprintf(&sb, "- Duration: %s\n\n", r.Stats.Duration)

	if len(r.Findings) == 0 {
		sb.WriteString("No findings.\n")
		return sb.String(), nil
	}

	byKind := make(map[model.FindingKind][]model.Finding)
	for _, f := range r.Findings {
		byKind[f.Kind] = append(byKind[f.Kind], f)
	}
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	sb.WriteString("## Findings\n\n")
	for _, k := range kinds {
		group := byKind[model.FindingKind(k)]
		fmt.Fprintf(&sb, "### %s (%d)\n\n", k, len(group))
		for _, f := range group {
			if f.Path != "" {
				fmt.Fprintf(&sb, "- %s (%s)\n", f.Message, f.Path)
			} else {
				fmt.Fprintf(&sb, "- %s\n", f.Message)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
