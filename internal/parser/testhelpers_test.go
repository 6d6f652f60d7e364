package parser

import (
	"fmt"
	"strings"
	"testing"

	"quill/internal/ast"
	"quill/internal/diag"
)

func parseString(t *testing.T, src string) (*ast.Builder, ast.FileID, []diag.Diagnostic) {
	t.Helper()
	return ParseSource("test.ql", []byte(src), Options{})
}

// sexpr renders the subtree rooted at n compactly, e.g. (= x (+ 1 2)).
func sexpr(b *ast.Builder, n ast.Node) string {
	var head string
	switch n.Kind {
	case ast.NodeExpr:
		e := b.Exprs.Get(n.Expr)
		switch e.Kind {
		case ast.ExprIdent:
			id, _ := b.Exprs.Ident(n.Expr)
			return b.Name(id.Name)
		case ast.ExprLit:
			lit, _ := b.Exprs.Literal(n.Expr)
			return b.Name(lit.Value)
		case ast.ExprError:
			return "<error>"
		case ast.ExprBinary:
			bin, _ := b.Exprs.Binary(n.Expr)
			head = bin.Op.String()
		case ast.ExprUnary:
			un, _ := b.Exprs.Unary(n.Expr)
			head = "unary" + un.Op.String()
		case ast.ExprMember:
			m, _ := b.Exprs.Member(n.Expr)
			head = "." + b.Name(m.Field)
		default:
			head = strings.ToLower(e.Kind.String())
		}
	case ast.NodeStmt:
		st := b.Stmts.Get(n.Stmt)
		switch st.Kind {
		case ast.StmtExpr:
			es, _ := b.Stmts.Expr(n.Stmt)
			return sexpr(b, ast.ExprNode(es.Expr))
		case ast.StmtBreak, ast.StmtContinue:
			return strings.ToLower(st.Kind.String())
		case ast.StmtError:
			return "<error-stmt>"
		case ast.StmtLet:
			let, _ := b.Stmts.Let(n.Stmt)
			head = "let " + b.Name(let.Name)
			if let.Mut {
				head = "let mut " + b.Name(let.Name)
			}
		default:
			head = strings.ToLower(st.Kind.String())
		}
	case ast.NodeItem:
		if fn, ok := b.Items.Fn(n.Item); ok {
			head = "fn " + b.Name(fn.Name)
			for _, prm := range fn.Params {
				head += " " + b.Name(prm.Name)
			}
		} else if st, ok := b.Items.Stmt(n.Item); ok {
			return sexpr(b, ast.StmtNode(st.Stmt))
		} else {
			return "<error-item>"
		}
	case ast.NodeFile:
		parts := make([]string, 0)
		for _, c := range b.Children(n) {
			parts = append(parts, sexpr(b, c))
		}
		return strings.Join(parts, " ")
	}

	parts := []string{head}
	for _, c := range b.Children(n) {
		parts = append(parts, sexpr(b, c))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func fileSexpr(b *ast.Builder, file ast.FileID) string {
	return sexpr(b, ast.FileNode(file))
}

func diagSummary(diags []diag.Diagnostic) string {
	parts := make([]string, 0, len(diags))
	for _, d := range diags {
		parts = append(parts, fmt.Sprintf("%s@%d-%d", d.Code.ID(), d.Primary.Start.Offset, d.Primary.End.Offset))
	}
	return strings.Join(parts, ", ")
}

// checkSpans verifies every child span lies inside its parent and siblings
// do not go backwards.
func checkSpans(t *testing.T, b *ast.Builder, file ast.FileID) {
	t.Helper()
	ast.Walk(b, file, func(n, _ ast.Node, _ int) bool {
		parent := b.Span(n)
		var prevEnd uint32
		for i, c := range b.Children(n) {
			cs := b.Span(c)
			if !parent.Contains(cs) {
				t.Errorf("%s %s does not contain child %s %s", b.Label(n), parent, b.Label(c), cs)
			}
			if i > 0 && cs.Start.Offset < prevEnd {
				t.Errorf("%s: child %s starts before previous sibling ends", b.Label(n), b.Label(c))
			}
			prevEnd = cs.End.Offset
		}
		return true
	})
}
