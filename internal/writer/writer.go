// Package writer turns the validated document tree into markdown files on
// disk. It is the only stage that touches the output filesystem and the only
// place diagram specs are encoded into Mermaid.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianshen/codewiki/internal/model"
)

// Format selects the flavor of markdown emitted for each page.
type Format string

const (
	FormatRaw        Format = "raw-md"
	FormatHugo       Format = "hugo"
	FormatDocusaurus Format = "docusaurus"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatRaw, FormatHugo, FormatDocusaurus:
		return Format(s), nil
	case "":
		return FormatRaw, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Writer emits a document tree below Dir, one markdown file per node.
type Writer struct {
	Dir    string
	Format Format
}

// Write walks the tree and writes every page. Directories are created as
// needed; existing files are overwritten. Site formats also get a minimal
// site configuration next to the pages.
func (w *Writer) Write(root *model.DocumentNode) error {
	var err error
	root.Walk(func(n *model.DocumentNode) {
		if err != nil {
			return
		}
		err = w.writePage(n)
	})
	if err != nil {
		return err
	}
	return w.writeSiteConfig(root)
}

func (w *Writer) writeSiteConfig(root *model.DocumentNode) error {
	var name, content string
	switch w.Format {
	case FormatHugo:
		name = "config.toml"
		content = fmt.Sprintf("baseURL = \"/\"\ntitle = %q\n", root.Title)
	case FormatDocusaurus:
		name = "docusaurus.config.js"
		content = fmt.Sprintf("module.exports = {\n  title: %q,\n  url: 'https://localhost',\n  baseUrl: '/',\n};\n", root.Title)
	default:
		return nil
	}
	target := filepath.Join(w.Dir, name)
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func (w *Writer) writePage(n *model.DocumentNode) error {
	target := filepath.Join(w.Dir, filepath.FromSlash(n.Path)+".md")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(target, []byte(w.renderPage(n)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func (w *Writer) renderPage(n *model.DocumentNode) string {
	var sb strings.Builder

	switch w.Format {
	case FormatHugo:
		fmt.Fprintf(&sb, "---\ntitle: %q\n---\n\n", n.Title)
	case FormatDocusaurus:
		fmt.Fprintf(&sb, "---\nid: %s\ntitle: %q\n---\n\n", docID(n.Path), n.Title)
	}

	fmt.Fprintf(&sb, "# %s\n\n", n.Title)

	for _, b := range n.Blocks {
		switch b.Kind {
		case model.BlockProse:
			sb.WriteString(b.Text)
			sb.WriteString("\n\n")
		case model.BlockCode:
			fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", b.Lang, b.Code)
		case model.BlockDiagram:
			if b.Diagram != nil {
				sb.WriteString(EncodeMermaid(b.Diagram))
				sb.WriteString("\n")
			}
		case model.BlockXRef:
			if b.Ref != nil {
				fmt.Fprintf(&sb, "- [%s](%s)\n\n", b.Ref.Label, relLink(n.Path, b.Ref.TargetPath))
			}
		}
	}
	return sb.String()
}

// relLink computes the markdown link from one page to another. Pages live at
// <path>.md, so links are relative to the source page's directory.
func relLink(fromPath, toPath string) string {
	fromDir := filepath.Dir(filepath.FromSlash(fromPath))
	rel, err := filepath.Rel(fromDir, filepath.FromSlash(toPath)+".md")
	if err != nil {
		return toPath + ".md"
	}
	return filepath.ToSlash(rel)
}

func docID(pagePath string) string {
	return strings.ReplaceAll(pagePath, "/", "-")
}
