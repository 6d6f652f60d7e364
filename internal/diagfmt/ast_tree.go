package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"quill/internal/ast"
)

// FormatASTTree prints the syntax tree of file one node per line, children
// indented under their parent:
//
//	File [1:1-2:1]
//	  Fn main() [1:1-1:13]
//	    Block [1:11-1:13]
func FormatASTTree(w io.Writer, b *ast.Builder, file ast.FileID) error {
	if b == nil || !file.IsValid() {
		return nil
	}
	var sb strings.Builder
	ast.Walk(b, file, func(n, _ ast.Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(b.Label(n))
		fmt.Fprintf(&sb, " [%s]\n", spanRange(b.Span(n)))
		return true
	})
	_, err := io.WriteString(w, sb.String())
	return err
}

// NodeJSON is the JSON shape of a syntax tree node.
type NodeJSON struct {
	Label    string      `json:"label"`
	Start    uint32      `json:"start"`
	End      uint32      `json:"end"`
	Children []*NodeJSON `json:"children,omitempty"`
}

// BuildASTJSON converts the tree rooted at file into nested NodeJSON values.
func BuildASTJSON(b *ast.Builder, file ast.FileID) *NodeJSON {
	if b == nil || !file.IsValid() {
		return nil
	}
	var build func(n ast.Node) *NodeJSON
	build = func(n ast.Node) *NodeJSON {
		sp := b.Span(n)
		out := &NodeJSON{Label: b.Label(n), Start: sp.Start.Offset, End: sp.End.Offset}
		for _, c := range b.Children(n) {
			out.Children = append(out.Children, build(c))
		}
		return out
	}
	return build(ast.FileNode(file))
}

// FormatASTJSON writes the tree as indented JSON.
func FormatASTJSON(w io.Writer, b *ast.Builder, file ast.FileID) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildASTJSON(b, file))
}
