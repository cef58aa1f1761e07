package model

// NodeKind classifies a node in the output document hierarchy.
type NodeKind string

const (
	NodeHub          NodeKind = "hub"
	NodeSection      NodeKind = "section"
	NodeComponent    NodeKind = "component-page"
	NodeTutorialStep NodeKind = "tutorial-step"
)

// BlockKind classifies a content block within a document node.
type BlockKind string

const (
	BlockProse   BlockKind = "prose"
	BlockCode    BlockKind = "code"
	BlockDiagram BlockKind = "diagram"
	BlockXRef    BlockKind = "xref"
)

// CrossReference is a typed pointer from a content block to another document
// node's output path. A back-reference, never an ownership relation.
type CrossReference struct {
	TargetPath string
	Label      string
}

// ContentBlock is one ordered piece of a document node's content. Only the
// fields matching the kind are populated: Text for prose, Code/Lang for code,
// Diagram for an embedded DiagramSpec, Ref for a cross-reference.
type ContentBlock struct {
	Kind    BlockKind
	Text    string
	Code    string
	Lang    string
	Diagram *DiagramSpec
	Ref     *CrossReference
}

// DocumentNode is a node in the output hierarchy. It owns its children
// (single-parent tree). The tree is never mutated after validation except for
// cross-reference repair.
type DocumentNode struct {
	Path     string // output path, kebab-case segments, slash-separated
	Title    string
	Kind     NodeKind
	Blocks   []ContentBlock
	Children []*DocumentNode
}

// Walk visits n and every descendant in depth-first document order.
func (n *DocumentNode) Walk(fn func(*DocumentNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the descendant (or n itself) with the given output path.
func (n *DocumentNode) Find(path string) *DocumentNode {
	var found *DocumentNode
	n.Walk(func(d *DocumentNode) {
		if found == nil && d.Path == path {
			found = d
		}
	})
	return found
}

// Len returns the number of nodes in the tree rooted at n.
func (n *DocumentNode) Len() int {
	count := 0
	n.Walk(func(*DocumentNode) { count++ })
	return count
}
