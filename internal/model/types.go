// Package model defines the language-agnostic data structures shared by every
// pipeline stage: source units, abstractions, the dependency graph, diagram
// specifications, the output document tree, and findings. The types carry no
// pipeline behavior; stages consume and produce them.
package model

import "time"

// SourceUnit is a file discovered by the repository scanner. Identity is the
// slash-normalized relative path; units are immutable once scanned.
type SourceUnit struct {
	Path      string // relative, slash-normalized
	Ecosystem string // detected ecosystem tag ("go", "python", "unknown", ...)
	Size      int64
	Hash      string // hex SHA-256 of the content
}

// AbstractionKind classifies a discovered abstraction.
type AbstractionKind string

const (
	KindModule  AbstractionKind = "module"
	KindService AbstractionKind = "service"
	KindUtility AbstractionKind = "utility"
	KindStore   AbstractionKind = "store"
	KindConfig  AbstractionKind = "config"
)

// AbstractionID is the stable identifier of an abstraction, derived from its
// source path and declared name.
type AbstractionID string

// Operation is a declared public operation of an abstraction.
type Operation struct {
	Name    string
	Params  []string
	Returns string
}

// Abstraction is a core structural component discovered in the analyzed
// repository. Produced by the extractor; referenced (never owned) by every
// downstream stage.
type Abstraction struct {
	ID         AbstractionID
	Name       string
	Kind       AbstractionKind
	SourcePath string
	Purpose    string // bounded free text
	Operations []Operation
	ConfigKeys map[string]string // key name -> effect description
}

// FindingKind identifies the class of a non-fatal diagnostic.
type FindingKind string

const (
	FindingScanExcluded        FindingKind = "scan-excluded"
	FindingUnitSkipped         FindingKind = "unit-skipped"
	FindingUnitUnanalyzed      FindingKind = "unit-unanalyzed"
	FindingAdapterError        FindingKind = "adapter-error"
	FindingKindConflict        FindingKind = "kind-conflict"
	FindingExtendsCycle        FindingKind = "extends-cycle"
	FindingUnresolvedReference FindingKind = "unresolved-reference"
	FindingDanglingXRef        FindingKind = "dangling-xref"
	FindingPartialRun          FindingKind = "partial-run"
)

// Finding is a non-fatal diagnostic recorded by a pipeline stage. Only the
// fields relevant to the kind are populated.
type Finding struct {
	Kind    FindingKind
	Message string
	Path    string // source unit or document path, when applicable
	Subject string // abstraction id, hint target, or reference target
}

// RunStats holds counts collected across a full pipeline run.
type RunStats struct {
	UnitsScanned         int
	UnitsExcluded        int
	UnitsUnanalyzed      int
	AbstractionsFound    int
	AbstractionsSurfaced int
	Edges                int
	Documents            int
	Duration             time.Duration
}

// Report is the findings summary emitted alongside the document tree.
type Report struct {
	RunID    string
	Stats    RunStats
	Findings []Finding
}

// CountFindings returns how many findings of the given kind the report holds.
func (r *Report) CountFindings(kind FindingKind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}
