package graph

import (
	"fmt"

	"github.com/julianshen/codewiki/internal/model"
)

// detectExtendsCycles runs white/gray/black depth-first traversal restricted
// to extends edges. Every back-edge to a gray node is reported as a finding;
// the edges themselves stay in the graph. uses/configures cycles are
// permitted and never inspected here.
func detectExtendsCycles(g *model.DependencyGraph) []model.Finding {
	const (
		white = iota
		gray
		black
	)

	adj := make(map[model.AbstractionID][]model.AbstractionID)
	for _, e := range g.Edges {
		if e.Kind == model.EdgeExtends {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}
	if len(adj) == 0 {
		return nil
	}

	color := make(map[model.AbstractionID]int)
	var findings []model.Finding

	var dfs func(id model.AbstractionID)
	dfs = func(id model.AbstractionID) {
		color[id] = gray
		for _, next := range adj[id] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				findings = append(findings, model.Finding{
					Kind:    model.FindingExtendsCycle,
					Subject: string(next),
					Message: fmt.Sprintf("extends cycle: %s -> %s closes a cycle", id, next),
				})
			}
		}
		color[id] = black
	}

	// Roots in abstraction order keeps the traversal, and therefore the
	// finding order, deterministic.
	for _, a := range g.Abstractions {
		if color[a.ID] == white {
			dfs(a.ID)
		}
	}

	return findings
}
