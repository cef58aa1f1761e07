// Package parser provides tree-sitter-based source analysis for the reference
// extraction adapters. It extracts package-level documentation, declared
// functions and types, and import statements: the normalized facts the
// extractor turns into abstractions and reference hints.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"
)

// FunctionDef is a function or method declaration.
type FunctionDef struct {
	Name      string
	Receiver  string // Go method receiver type, empty for plain functions
	Params    string // raw parameter list text, parentheses stripped
	Results   string // raw result text, empty when none
	StartLine int
	EndLine   int
}

// TypeDef is a declared type (Go struct/interface, Python class).
type TypeDef struct {
	Name      string
	Form      string   // "struct", "interface", "class", "other"
	Bases     []string // Python superclass names, empty for Go
	StartLine int
}

// FileInfo is the normalized analysis of a single source file.
type FileInfo struct {
	Package   string // Go package name or Python module name
	Doc       string // leading package/module documentation
	Functions []FunctionDef
	Types     []TypeDef
	Constants []string // top-level const/assignment names
	Imports   []string
}

// langInfo binds a tree-sitter grammar to the extraction routine for that
// language.
type langInfo struct {
	lang    *sitter.Language
	extract func(root *sitter.Node, source []byte, info *FileInfo)
}

// registry maps file extensions to supported languages.
var registry = map[string]langInfo{
	".go": {lang: golang.GetLanguage(), extract: extractGo},
	".py": {lang: python.GetLanguage(), extract: extractPython},
}

// Parser analyzes source files with automatic language detection from the
// file extension.
type Parser struct {
	inner *sitter.Parser
}

// New creates a Parser.
func New() *Parser {
	return &Parser{inner: sitter.NewParser()}
}

// Supported reports whether the parser handles the given filename's extension.
func Supported(filename string) bool {
	_, ok := registry[filepath.Ext(filename)]
	return ok
}

// Analyze parses source and returns its normalized FileInfo. The syntax tree
// is closed before returning. Unsupported extensions return an error.
func (p *Parser) Analyze(ctx context.Context, filename string, source []byte) (*FileInfo, error) {
	info, ok := registry[filepath.Ext(filename)]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(filename))
	}

	p.inner.SetLanguage(info.lang)
	tree, err := p.inner.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	fi := &FileInfo{}
	info.extract(tree.RootNode(), source, fi)
	return fi, nil
}

// walk performs a depth-first traversal, calling fn for each node.
func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child != nil {
			walk(child, fn)
		}
	}
}

// ---------- Go ----------

func extractGo(root *sitter.Node, source []byte, info *FileInfo) {
	info.Doc = leadingComments(root, source, "package_clause")

	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "package_clause":
			for i := 0; i < int(n.ChildCount()); i++ {
				if c := n.Child(i); c != nil && c.Type() == "package_identifier" {
					info.Package = c.Content(source)
				}
			}

		case "function_declaration", "method_declaration":
			fn := FunctionDef{
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
			}
			if name := n.ChildByFieldName("name"); name != nil {
				fn.Name = name.Content(source)
			}
			if params := n.ChildByFieldName("parameters"); params != nil {
				fn.Params = strings.Trim(params.Content(source), "()")
			}
			if result := n.ChildByFieldName("result"); result != nil {
				fn.Results = result.Content(source)
			}
			if recv := n.ChildByFieldName("receiver"); recv != nil {
				fn.Receiver = receiverType(recv.Content(source))
			}
			if fn.Name != "" {
				info.Functions = append(info.Functions, fn)
			}

		case "type_spec":
			td := TypeDef{StartLine: int(n.StartPoint().Row) + 1, Form: "other"}
			if name := n.ChildByFieldName("name"); name != nil {
				td.Name = name.Content(source)
			}
			if typ := n.ChildByFieldName("type"); typ != nil {
				switch typ.Type() {
				case "struct_type":
					td.Form = "struct"
				case "interface_type":
					td.Form = "interface"
				}
			}
			if td.Name != "" {
				info.Types = append(info.Types, td)
			}

		case "const_spec":
			if name := n.ChildByFieldName("name"); name != nil {
				info.Constants = append(info.Constants, name.Content(source))
			}

		case "import_spec":
			walk(n, func(lit *sitter.Node) {
				if lit.Type() == "interpreted_string_literal" {
					if path := strings.Trim(lit.Content(source), "\"`"); path != "" {
						info.Imports = append(info.Imports, path)
					}
				}
			})
		}
	})
}

// receiverType strips the receiver parameter list down to the bare type name:
// "(s *Store)" -> "Store".
func receiverType(recv string) string {
	recv = strings.Trim(recv, "()")
	fields := strings.Fields(recv)
	if len(fields) == 0 {
		return ""
	}
	typ := strings.TrimPrefix(fields[len(fields)-1], "*")
	// Drop type parameters: "Store[T]" -> "Store".
	if idx := strings.IndexByte(typ, '['); idx >= 0 {
		typ = typ[:idx]
	}
	return typ
}

// ---------- Python ----------

func extractPython(root *sitter.Node, source []byte, info *FileInfo) {
	info.Doc = moduleDocstring(root, source)

	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "function_definition":
			fn := FunctionDef{
				StartLine: int(n.StartPoint().Row) + 1,
				EndLine:   int(n.EndPoint().Row) + 1,
			}
			if name := n.ChildByFieldName("name"); name != nil {
				fn.Name = name.Content(source)
			}
			if params := n.ChildByFieldName("parameters"); params != nil {
				fn.Params = strings.Trim(params.Content(source), "()")
			}
			if ret := n.ChildByFieldName("return_type"); ret != nil {
				fn.Results = ret.Content(source)
			}
			if fn.Name != "" {
				info.Functions = append(info.Functions, fn)
			}

		case "class_definition":
			td := TypeDef{Form: "class", StartLine: int(n.StartPoint().Row) + 1}
			if name := n.ChildByFieldName("name"); name != nil {
				td.Name = name.Content(source)
			}
			if supers := n.ChildByFieldName("superclasses"); supers != nil {
				for _, base := range strings.Split(strings.Trim(supers.Content(source), "()"), ",") {
					if base = strings.TrimSpace(base); base != "" {
						td.Bases = append(td.Bases, base)
					}
				}
			}
			if td.Name != "" {
				info.Types = append(info.Types, td)
			}

		case "assignment":
			if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
				if name := left.Content(source); name == strings.ToUpper(name) && name != "_" {
					info.Constants = append(info.Constants, name)
				}
			}

		case "import_statement":
			info.Imports = append(info.Imports, pythonImports(n.Content(source))...)

		case "import_from_statement":
			if mod := pythonFromImport(n.Content(source)); mod != "" {
				info.Imports = append(info.Imports, mod)
			}
		}
	})
}

// moduleDocstring returns the module-level docstring, if the first statement
// is a bare string expression.
func moduleDocstring(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		if child.Type() != "expression_statement" || child.ChildCount() == 0 {
			return ""
		}
		str := child.Child(0)
		if str == nil || str.Type() != "string" {
			return ""
		}
		return strings.TrimSpace(strings.Trim(str.Content(source), "\"'"))
	}
	return ""
}

// pythonImports handles "import os, sys" including "as" aliases.
func pythonImports(text string) []string {
	text = strings.TrimSpace(strings.TrimPrefix(text, "import "))
	var result []string
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if idx := strings.Index(part, " as "); idx >= 0 {
			part = part[:idx]
		}
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// pythonFromImport handles "from pkg import x" and returns the source module.
func pythonFromImport(text string) string {
	text = strings.TrimPrefix(text, "from ")
	parts := strings.SplitN(text, " import ", 2)
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0])
}

// leadingComments collects the consecutive comment block that precedes the
// first node of the given type, stripping comment markers.
func leadingComments(root *sitter.Node, source []byte, beforeType string) string {
	var lines []string
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child == nil {
			continue
		}
		if child.Type() == "comment" {
			text := child.Content(source)
			text = strings.TrimPrefix(text, "//")
			text = strings.TrimPrefix(text, "/*")
			text = strings.TrimSuffix(text, "*/")
			lines = append(lines, strings.TrimSpace(text))
			continue
		}
		if child.Type() == beforeType {
			break
		}
		// Something other than a comment before the marker: no doc block.
		return ""
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
