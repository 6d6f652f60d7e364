package ast

import "quill/internal/source"

// NodeKind tells which arena a Node points into.
type NodeKind uint8

const (
	NodeFile NodeKind = iota
	NodeItem
	NodeStmt
	NodeExpr
)

// Node is a reference to any tree node. Exactly one ID matching Kind is set.
type Node struct {
	Kind NodeKind
	File FileID
	Item ItemID
	Stmt StmtID
	Expr ExprID
}

func FileNode(id FileID) Node { return Node{Kind: NodeFile, File: id} }
func ItemNode(id ItemID) Node { return Node{Kind: NodeItem, Item: id} }
func StmtNode(id StmtID) Node { return Node{Kind: NodeStmt, Stmt: id} }
func ExprNode(id ExprID) Node { return Node{Kind: NodeExpr, Expr: id} }

// Span returns the span recorded for n.
func (b *Builder) Span(n Node) source.Span {
	switch n.Kind {
	case NodeFile:
		if f := b.Files.Get(n.File); f != nil {
			return f.Span
		}
	case NodeItem:
		if it := b.Items.Get(n.Item); it != nil {
			return it.Span
		}
	case NodeStmt:
		if st := b.Stmts.Get(n.Stmt); st != nil {
			return st.Span
		}
	case NodeExpr:
		if ex := b.Exprs.Get(n.Expr); ex != nil {
			return ex.Span
		}
	}
	return source.Span{}
}

// Children returns the direct children of n in source order.
func (b *Builder) Children(n Node) []Node {
	var out []Node
	addExpr := func(id ExprID) {
		if id.IsValid() {
			out = append(out, ExprNode(id))
		}
	}
	addStmt := func(id StmtID) {
		if id.IsValid() {
			out = append(out, StmtNode(id))
		}
	}

	switch n.Kind {
	case NodeFile:
		if f := b.Files.Get(n.File); f != nil {
			for _, it := range f.Items {
				out = append(out, ItemNode(it))
			}
		}
	case NodeItem:
		if fn, ok := b.Items.Fn(n.Item); ok {
			addStmt(fn.Body)
		} else if st, ok := b.Items.Stmt(n.Item); ok {
			addStmt(st.Stmt)
		}
	case NodeStmt:
		st := b.Stmts.Get(n.Stmt)
		if st == nil {
			return nil
		}
		switch st.Kind {
		case StmtBlock:
			blk, _ := b.Stmts.Block(n.Stmt)
			for _, s := range blk.Stmts {
				addStmt(s)
			}
		case StmtLet:
			let, _ := b.Stmts.Let(n.Stmt)
			addExpr(let.Value)
		case StmtExpr:
			es, _ := b.Stmts.Expr(n.Stmt)
			addExpr(es.Expr)
		case StmtIf:
			ifs, _ := b.Stmts.If(n.Stmt)
			addExpr(ifs.Cond)
			addStmt(ifs.Then)
			addStmt(ifs.Else)
		case StmtWhile:
			w, _ := b.Stmts.While(n.Stmt)
			addExpr(w.Cond)
			addStmt(w.Body)
		case StmtReturn:
			r, _ := b.Stmts.Return(n.Stmt)
			addExpr(r.Value)
		}
	case NodeExpr:
		ex := b.Exprs.Get(n.Expr)
		if ex == nil {
			return nil
		}
		switch ex.Kind {
		case ExprBinary:
			bin, _ := b.Exprs.Binary(n.Expr)
			addExpr(bin.Left)
			addExpr(bin.Right)
		case ExprUnary:
			un, _ := b.Exprs.Unary(n.Expr)
			addExpr(un.Operand)
		case ExprCall:
			call, _ := b.Exprs.Call(n.Expr)
			addExpr(call.Target)
			for _, a := range call.Args {
				addExpr(a)
			}
		case ExprIndex:
			idx, _ := b.Exprs.Index(n.Expr)
			addExpr(idx.Target)
			addExpr(idx.Index)
		case ExprMember:
			m, _ := b.Exprs.Member(n.Expr)
			addExpr(m.Target)
		case ExprGroup:
			g, _ := b.Exprs.Group(n.Expr)
			addExpr(g.Inner)
		}
	}
	return out
}

// Walk visits the tree of file in pre-order. visit gets the node, its parent
// (the zero Node for the root) and its depth; returning false skips the
// node's children.
func Walk(b *Builder, file FileID, visit func(n, parent Node, depth int) bool) {
	var walk func(n, parent Node, depth int)
	walk = func(n, parent Node, depth int) {
		if !visit(n, parent, depth) {
			return
		}
		for _, c := range b.Children(n) {
			walk(c, n, depth+1)
		}
	}
	walk(FileNode(file), Node{}, 0)
}

// Label is a short one-line description of n used by tree dumps.
func (b *Builder) Label(n Node) string {
	switch n.Kind {
	case NodeFile:
		return "File"
	case NodeItem:
		it := b.Items.Get(n.Item)
		if it == nil {
			return "Item(?)"
		}
		if fn, ok := b.Items.Fn(n.Item); ok {
			label := "Fn " + b.Name(fn.Name) + "("
			for i, p := range fn.Params {
				if i > 0 {
					label += ", "
				}
				label += b.Name(p.Name)
			}
			return label + ")"
		}
		return "Item" + it.Kind.String()
	case NodeStmt:
		st := b.Stmts.Get(n.Stmt)
		if st == nil {
			return "Stmt(?)"
		}
		if let, ok := b.Stmts.Let(n.Stmt); ok {
			if let.Mut {
				return "Let mut " + b.Name(let.Name)
			}
			return "Let " + b.Name(let.Name)
		}
		return st.Kind.String()
	case NodeExpr:
		ex := b.Exprs.Get(n.Expr)
		if ex == nil {
			return "Expr(?)"
		}
		switch ex.Kind {
		case ExprIdent:
			id, _ := b.Exprs.Ident(n.Expr)
			return "Ident " + b.Name(id.Name)
		case ExprLit:
			lit, _ := b.Exprs.Literal(n.Expr)
			return "Lit " + lit.Kind.String() + " " + b.Name(lit.Value)
		case ExprBinary:
			bin, _ := b.Exprs.Binary(n.Expr)
			return "Binary " + bin.Op.String()
		case ExprUnary:
			un, _ := b.Exprs.Unary(n.Expr)
			return "Unary " + un.Op.String()
		case ExprMember:
			m, _ := b.Exprs.Member(n.Expr)
			return "Member ." + b.Name(m.Field)
		}
		return ex.Kind.String()
	}
	return "?"
}
