package writer

import (
	"fmt"
	"strings"

	"github.com/julianshen/codewiki/internal/model"
)

// EncodeMermaid renders a diagram spec as a fenced Mermaid block. System and
// interaction specs become flowcharts; sequence specs become sequence
// diagrams.
func EncodeMermaid(spec *model.DiagramSpec) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	switch spec.Type {
	case model.DiagramSequence:
		encodeSequence(&sb, spec)
	default:
		encodeFlowchart(&sb, spec)
	}
	sb.WriteString("```\n")
	return sb.String()
}

func encodeFlowchart(sb *strings.Builder, spec *model.DiagramSpec) {
	sb.WriteString("graph TD\n")
	for _, n := range spec.Nodes {
		fmt.Fprintf(sb, "    %s[\"%s\"]\n", sanitizeID(string(n.ID)), escapeLabel(n.Label))
	}
	for _, e := range spec.Edges {
		arrow := "-->"
		if e.Kind == model.EdgeConfigures {
			arrow = "-.->"
		}
		fmt.Fprintf(sb, "    %s %s %s\n", sanitizeID(string(e.From)), arrow, sanitizeID(string(e.To)))
	}
}

func encodeSequence(sb *strings.Builder, spec *model.DiagramSpec) {
	sb.WriteString("sequenceDiagram\n")
	for _, n := range spec.Nodes {
		fmt.Fprintf(sb, "    participant %s as %s\n", sanitizeID(string(n.ID)), escapeLabel(n.Label))
	}
	for _, s := range spec.Steps {
		fmt.Fprintf(sb, "    %s->>%s: %s\n", sanitizeID(string(s.From)), sanitizeID(string(s.To)), escapeLabel(s.Label))
	}
}

// sanitizeID makes an abstraction id safe as a Mermaid node identifier.
func sanitizeID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "node"
	}
	return sb.String()
}

// escapeLabel strips characters that break Mermaid labels.
func escapeLabel(label string) string {
	r := strings.NewReplacer("\"", "'", "\n", " ", "[", "(", "]", ")", "{", "(", "}", ")")
	return r.Replace(label)
}
