// Package render maps the surfaced abstractions, the dependency graph, the
// diagram specs, and the tutorial plan onto the fixed documentation
// hierarchy. Rendering is pure: identical input produces a byte-identical
// document tree, and component pages carry no content beyond what the
// abstraction records hold.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianshen/codewiki/internal/model"
	"github.com/julianshen/codewiki/internal/tutorial"
)

// Input bundles everything the renderer consumes.
type Input struct {
	Title        string // project display name
	Abstractions []model.Abstraction
	Graph        *model.DependencyGraph
	Diagrams     []model.DiagramSpec
	Plan         tutorial.Plan
}

// Render builds the full document tree: hub, technical section with one
// component page per surfaced abstraction, and the tutorial section.
func Render(in Input) *model.DocumentNode {
	root := hubPage(in)
	root.Children = append(root.Children, technicalSection(in))
	root.Children = append(root.Children, tutorialSection(in))
	return root
}

// ---------- hub ----------

func hubPage(in Input) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  "README",
		Title: in.Title,
		Kind:  model.NodeHub,
	}

	node.Blocks = append(node.Blocks, prose(fmt.Sprintf(
		"%s: generated documentation for %d core components.", in.Title, len(in.Abstractions))))
	node.Blocks = append(node.Blocks, xref("technical/README", "Technical Reference"))
	node.Blocks = append(node.Blocks, xref("tutorial/README", "Tutorial"))

	for _, a := range in.Abstractions {
		node.Blocks = append(node.Blocks, xref(componentPath(a.ID), a.Name))
	}
	return node
}

// ---------- technical section ----------

func technicalSection(in Input) *model.DocumentNode {
	section := &model.DocumentNode{
		Path:  "technical/README",
		Title: "Technical Reference",
		Kind:  model.NodeSection,
		Blocks: []model.ContentBlock{
			prose("Reference documentation for every discovered component, plus architecture, configuration, and deployment views."),
			xref("technical/architecture", "Architecture"),
			xref("technical/configuration", "Configuration"),
			xref("technical/deployment", "Deployment"),
		},
	}

	for _, a := range in.Abstractions {
		section.Blocks = append(section.Blocks, xref(componentPath(a.ID), a.Name))
	}

	section.Children = append(section.Children, architecturePage(in))
	section.Children = append(section.Children, configurationPage(in))
	section.Children = append(section.Children, deploymentPage(in))
	for _, a := range in.Abstractions {
		section.Children = append(section.Children, componentPage(in, a))
	}
	return section
}

func architecturePage(in Input) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  "technical/architecture",
		Title: "Architecture",
		Kind:  model.NodeSection,
	}

	node.Blocks = append(node.Blocks, prose(fmt.Sprintf(
		"The system is composed of %d components connected by %d dependency relations.",
		len(in.Abstractions), len(in.Graph.Edges))))

	for i := range in.Diagrams {
		node.Blocks = append(node.Blocks, model.ContentBlock{
			Kind:    model.BlockDiagram,
			Diagram: &in.Diagrams[i],
		})
	}

	// extends-cycles detected at graph build time surface here as known issues.
	for _, f := range in.Graph.Findings {
		if f.Kind == model.FindingExtendsCycle {
			node.Blocks = append(node.Blocks, prose("Known issue: "+f.Message))
		}
	}
	return node
}

func configurationPage(in Input) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  "technical/configuration",
		Title: "Configuration",
		Kind:  model.NodeSection,
	}

	any := false
	for _, a := range in.Abstractions {
		if len(a.ConfigKeys) == 0 {
			continue
		}
		any = true
		node.Blocks = append(node.Blocks, prose(fmt.Sprintf("%s:", a.Name)))
		for _, key := range sortedKeys(a.ConfigKeys) {
			node.Blocks = append(node.Blocks, prose(fmt.Sprintf("- `%s`: %s", key, a.ConfigKeys[key])))
		}
		node.Blocks = append(node.Blocks, xref(componentPath(a.ID), a.Name))
	}
	if !any {
		node.Blocks = append(node.Blocks, prose("No configuration keys were discovered."))
	}
	return node
}

func deploymentPage(in Input) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  "technical/deployment",
		Title: "Deployment",
		Kind:  model.NodeSection,
	}

	byKind := make(map[model.AbstractionKind][]model.Abstraction)
	for _, a := range in.Abstractions {
		byKind[a.Kind] = append(byKind[a.Kind], a)
	}

	order := []model.AbstractionKind{model.KindService, model.KindStore, model.KindConfig, model.KindModule, model.KindUtility}
	for _, kind := range order {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		names := make([]string, len(group))
		for i, a := range group {
			names[i] = a.Name
		}
		node.Blocks = append(node.Blocks, prose(fmt.Sprintf("%s components: %s.", kind, strings.Join(names, ", "))))
	}
	if len(node.Blocks) == 0 {
		node.Blocks = append(node.Blocks, prose("No components were discovered."))
	}
	return node
}

func componentPage(in Input, a model.Abstraction) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  componentPath(a.ID),
		Title: a.Name,
		Kind:  model.NodeComponent,
	}

	node.Blocks = append(node.Blocks, prose(fmt.Sprintf("Kind: %s. Source: %s.", a.Kind, a.SourcePath)))
	if a.Purpose != "" {
		node.Blocks = append(node.Blocks, prose(a.Purpose))
	}

	if len(a.Operations) > 0 {
		var sigs []string
		for _, op := range a.Operations {
			sigs = append(sigs, signature(op))
		}
		node.Blocks = append(node.Blocks, model.ContentBlock{
			Kind: model.BlockCode,
			Code: strings.Join(sigs, "\n"),
		})
	}

	for _, key := range sortedKeys(a.ConfigKeys) {
		node.Blocks = append(node.Blocks, prose(fmt.Sprintf("Config `%s`: %s", key, a.ConfigKeys[key])))
	}

	// Outbound then inbound relations, each as a cross-reference.
	for _, e := range in.Graph.Out(a.ID) {
		if target, ok := in.Graph.Abstraction(e.To); ok {
			node.Blocks = append(node.Blocks, xref(componentPath(e.To), fmt.Sprintf("%s %s", e.Kind, target.Name)))
		}
	}
	for _, e := range in.Graph.In(a.ID) {
		if source, ok := in.Graph.Abstraction(e.From); ok {
			node.Blocks = append(node.Blocks, xref(componentPath(e.From), fmt.Sprintf("used by %s", source.Name)))
		}
	}
	return node
}

// ---------- tutorial section ----------

func tutorialSection(in Input) *model.DocumentNode {
	section := &model.DocumentNode{
		Path:  "tutorial/README",
		Title: "Tutorial",
		Kind:  model.NodeSection,
		Blocks: []model.ContentBlock{
			prose("A progressive walkthrough of the codebase, from first contact to its advanced components."),
			xref("tutorial/getting-started", "Getting Started"),
			xref("tutorial/basic-usage", "Basic Usage"),
			xref("tutorial/advanced-features", "Advanced Features"),
			xref("tutorial/troubleshooting", "Troubleshooting"),
			xref("tutorial/faq", "FAQ"),
		},
	}

	section.Children = append(section.Children,
		gettingStartedPage(in),
		subjectsPage(in, "tutorial/basic-usage", "Basic Usage", in.Plan.Basic),
		subjectsPage(in, "tutorial/advanced-features", "Advanced Features", in.Plan.Advanced),
		troubleshootingPage(in),
		faqPage(in),
	)
	return section
}

func gettingStartedPage(in Input) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  "tutorial/getting-started",
		Title: "Getting Started",
		Kind:  model.NodeTutorialStep,
	}

	node.Blocks = append(node.Blocks, prose(fmt.Sprintf(
		"%s exposes %d core components. Start with the basics below, then move on to the advanced features.",
		in.Title, len(in.Abstractions))))
	if len(in.Plan.Basic) > 0 {
		first := in.Plan.Basic[0]
		if a, ok := in.Graph.Abstraction(first); ok {
			node.Blocks = append(node.Blocks, prose(fmt.Sprintf("The entry point of the dependency graph is %s.", a.Name)))
			node.Blocks = append(node.Blocks, xref(componentPath(first), a.Name))
		}
	}
	return node
}

func subjectsPage(in Input, path, title string, subjects []model.AbstractionID) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  path,
		Title: title,
		Kind:  model.NodeTutorialStep,
	}

	if len(subjects) == 0 {
		node.Blocks = append(node.Blocks, prose("Nothing to cover in this step."))
		return node
	}

	for _, id := range subjects {
		a, ok := in.Graph.Abstraction(id)
		if !ok {
			continue
		}
		if a.Purpose != "" {
			node.Blocks = append(node.Blocks, prose(fmt.Sprintf("%s: %s", a.Name, a.Purpose)))
		} else {
			node.Blocks = append(node.Blocks, prose(a.Name))
		}
		if len(a.Operations) > 0 {
			node.Blocks = append(node.Blocks, model.ContentBlock{
				Kind: model.BlockCode,
				Code: signature(a.Operations[0]),
			})
		}
		node.Blocks = append(node.Blocks, xref(componentPath(id), a.Name))
	}
	return node
}

func troubleshootingPage(in Input) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  "tutorial/troubleshooting",
		Title: "Troubleshooting",
		Kind:  model.NodeTutorialStep,
	}

	hasIssues := false
	for _, f := range in.Graph.Findings {
		if f.Kind == model.FindingExtendsCycle {
			hasIssues = true
			node.Blocks = append(node.Blocks, prose(f.Message))
		}
	}
	if !hasIssues {
		node.Blocks = append(node.Blocks, prose("No known structural issues were detected in this codebase."))
	}
	return node
}

func faqPage(in Input) *model.DocumentNode {
	node := &model.DocumentNode{
		Path:  "tutorial/faq",
		Title: "FAQ",
		Kind:  model.NodeTutorialStep,
	}

	node.Blocks = append(node.Blocks,
		prose(fmt.Sprintf("How many components does %s have? %d are documented here.", in.Title, len(in.Abstractions))),
		prose(fmt.Sprintf("How are they connected? The dependency graph records %d relations.", len(in.Graph.Edges))),
		xref("technical/architecture", "Architecture"),
	)
	return node
}

// ---------- helpers ----------

func componentPath(id model.AbstractionID) string {
	return "technical/components/" + string(id)
}

func prose(text string) model.ContentBlock {
	return model.ContentBlock{Kind: model.BlockProse, Text: text}
}

func xref(target, label string) model.ContentBlock {
	return model.ContentBlock{
		Kind: model.BlockXRef,
		Ref:  &model.CrossReference{TargetPath: target, Label: label},
	}
}

func signature(op model.Operation) string {
	sig := fmt.Sprintf("%s(%s)", op.Name, strings.Join(op.Params, ", "))
	if op.Returns != "" {
		sig += " " + op.Returns
	}
	return sig
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
