// Package diagram projects the dependency graph into the three fixed
// declarative diagram specifications embedded in the generated documentation.
// No rendering happens here; the writer encodes specs into a concrete
// diagram syntax.
package diagram

import (
	"sort"

	"github.com/julianshen/codewiki/internal/model"
)

// CallerNodeID is the synthetic boundary node that opens the sequence view.
const CallerNodeID model.AbstractionID = "caller"

// Synthesize produces exactly three diagram specs per run: the system map,
// the interaction subgraph, and a best-effort narrative sequence.
func Synthesize(g *model.DependencyGraph) []model.DiagramSpec {
	return []model.DiagramSpec{
		systemDiagram(g),
		interactionDiagram(g),
		sequenceDiagram(g),
	}
}

// systemDiagram is the top-level map: every surfaced abstraction plus all
// uses and configures edges.
func systemDiagram(g *model.DependencyGraph) model.DiagramSpec {
	spec := model.DiagramSpec{Name: "system-overview", Type: model.DiagramSystem}
	for _, a := range g.Abstractions {
		spec.Nodes = append(spec.Nodes, model.DiagramNode{ID: a.ID, Label: a.Name})
	}
	for _, e := range g.Edges {
		if e.Kind == model.EdgeUses || e.Kind == model.EdgeConfigures {
			spec.Edges = append(spec.Edges, model.DiagramEdge(e))
		}
	}
	return spec
}

// interactionDiagram keeps only the uses subgraph: nodes that participate in
// at least one uses edge, and the uses edges between them.
func interactionDiagram(g *model.DependencyGraph) model.DiagramSpec {
	spec := model.DiagramSpec{Name: "component-interaction", Type: model.DiagramInteraction}

	degree := usesDegree(g)
	for _, a := range g.Abstractions {
		if degree[a.ID] >= 1 {
			spec.Nodes = append(spec.Nodes, model.DiagramNode{ID: a.ID, Label: a.Name})
		}
	}
	for _, e := range g.Edges {
		if e.Kind == model.EdgeUses {
			spec.Edges = append(spec.Edges, model.DiagramEdge(e))
		}
	}
	return spec
}

// sequenceDiagram orders the interaction subgraph into steps by depth-first
// traversal from the highest-out-degree node, ties broken by id. A synthetic
// caller boundary node opens the narrative. This is a reading order, not a
// runtime trace.
func sequenceDiagram(g *model.DependencyGraph) model.DiagramSpec {
	spec := model.DiagramSpec{Name: "key-sequence", Type: model.DiagramSequence}

	adj := make(map[model.AbstractionID][]model.AbstractionID)
	for _, e := range g.Edges {
		if e.Kind == model.EdgeUses {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}

	start, ok := startNode(g, adj)
	if !ok {
		return spec // no uses edges: an empty narrative
	}

	spec.Nodes = append(spec.Nodes, model.DiagramNode{ID: CallerNodeID, Label: "Caller", Synthetic: true})
	spec.Steps = append(spec.Steps, model.SequenceStep{From: CallerNodeID, To: start, Label: "invokes"})

	visited := map[model.AbstractionID]bool{start: true}
	appendNode(&spec, g, start)

	var dfs func(id model.AbstractionID)
	dfs = func(id model.AbstractionID) {
		targets := append([]model.AbstractionID(nil), adj[id]...)
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, next := range targets {
			if visited[next] {
				continue
			}
			visited[next] = true
			appendNode(&spec, g, next)
			spec.Steps = append(spec.Steps, model.SequenceStep{From: id, To: next, Label: "uses"})
			dfs(next)
		}
	}
	dfs(start)

	return spec
}

// usesDegree counts, per node, the uses edges it participates in on either
// end.
func usesDegree(g *model.DependencyGraph) map[model.AbstractionID]int {
	degree := make(map[model.AbstractionID]int)
	for _, e := range g.Edges {
		if e.Kind == model.EdgeUses {
			degree[e.From]++
			degree[e.To]++
		}
	}
	return degree
}

// startNode picks the highest-out-degree node of the uses subgraph,
// id-lexical on ties.
func startNode(g *model.DependencyGraph, adj map[model.AbstractionID][]model.AbstractionID) (model.AbstractionID, bool) {
	var best model.AbstractionID
	bestDegree := -1
	for _, a := range g.Abstractions {
		d := len(adj[a.ID])
		if d > bestDegree || (d == bestDegree && a.ID < best) {
			best = a.ID
			bestDegree = d
		}
	}
	return best, bestDegree > 0
}

func appendNode(spec *model.DiagramSpec, g *model.DependencyGraph, id model.AbstractionID) {
	label := string(id)
	if a, ok := g.Abstraction(id); ok {
		label = a.Name
	}
	spec.Nodes = append(spec.Nodes, model.DiagramNode{ID: id, Label: label})
}
