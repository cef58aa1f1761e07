package model

// EdgeKind classifies a dependency edge.
type EdgeKind string

const (
	EdgeUses       EdgeKind = "uses"
	EdgeConfigures EdgeKind = "configures"
	EdgeExtends    EdgeKind = "extends"
)

// DependencyEdge is a directed relation between two surfaced abstractions.
// Edges with the same endpoints but different kinds are distinct.
type DependencyEdge struct {
	From AbstractionID
	To   AbstractionID
	Kind EdgeKind
}

// Hint is a raw directed reference emitted by an adapter: "this unit appears
// to reference Target". Targets are resolved to abstraction ids by the graph
// builder; unresolvable hints are dropped with a finding.
type Hint struct {
	FromUnit string        // source unit path the hint came from
	From     AbstractionID // owning abstraction, if known at extraction time
	Target   string        // referenced path or name, unresolved
	Kind     EdgeKind
}

// DependencyGraph is the surfaced abstraction set plus the deduplicated edge
// set. Abstraction and edge order is deterministic (first-seen, lexical ties).
// Extends-cycle findings detected at build time are attached, not fatal.
type DependencyGraph struct {
	Abstractions []Abstraction
	Edges        []DependencyEdge
	Findings     []Finding
}

// Abstraction returns the abstraction with the given id, or false.
func (g *DependencyGraph) Abstraction(id AbstractionID) (Abstraction, bool) {
	for _, a := range g.Abstractions {
		if a.ID == id {
			return a, true
		}
	}
	return Abstraction{}, false
}

// Out returns the edges leaving id, in graph edge order.
func (g *DependencyGraph) Out(id AbstractionID) []DependencyEdge {
	var out []DependencyEdge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// In returns the edges entering id, in graph edge order.
func (g *DependencyGraph) In(id AbstractionID) []DependencyEdge {
	var in []DependencyEdge
	for _, e := range g.Edges {
		if e.To == id {
			in = append(in, e)
		}
	}
	return in
}

// OutDegree returns the number of edges leaving id.
func (g *DependencyGraph) OutDegree(id AbstractionID) int { return len(g.Out(id)) }

// InDegree returns the number of edges entering id.
func (g *DependencyGraph) InDegree(id AbstractionID) int { return len(g.In(id)) }

// DiagramType identifies one of the three fixed diagram views.
type DiagramType string

const (
	DiagramSystem      DiagramType = "system"
	DiagramInteraction DiagramType = "interaction"
	DiagramSequence    DiagramType = "sequence"
)

// DiagramNode is a node in a declarative diagram: a surfaced abstraction or a
// synthetic boundary node.
type DiagramNode struct {
	ID        AbstractionID
	Label     string
	Synthetic bool
}

// DiagramEdge is a directed edge in a declarative diagram.
type DiagramEdge struct {
	From AbstractionID
	To   AbstractionID
	Kind EdgeKind
}

// SequenceStep is one ordered interaction in a sequence diagram.
type SequenceStep struct {
	From  AbstractionID
	To    AbstractionID
	Label string
}

// DiagramSpec is a named, renderer-agnostic graph description. Sequence
// diagrams carry Steps instead of Edges. Specs are generated fresh each run
// and live only inside the document tree.
type DiagramSpec struct {
	Name  string
	Type  DiagramType
	Nodes []DiagramNode
	Edges []DiagramEdge
	Steps []SequenceStep
}
