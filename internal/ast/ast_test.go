package ast

import (
	"testing"

	"quill/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{
		File:  1,
		Start: source.Position{Line: 1, Column: start + 1, Offset: start},
		End:   source.Position{Line: 1, Column: end + 1, Offset: end},
	}
}

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[string](0)
	if a.Get(0) != nil || a.Get(1) != nil {
		t.Fatal("empty arena returned an element")
	}
	id := a.Allocate("x")
	if id != 1 || *a.Get(id) != "x" || a.Len() != 1 {
		t.Fatalf("id %d len %d", id, a.Len())
	}
}

func TestKindedAccessors(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	x := b.Exprs.NewIdent(sp(0, 1), b.Intern("x"))
	if _, ok := b.Exprs.Binary(x); ok {
		t.Fatal("ident read as binary")
	}
	if id, ok := b.Exprs.Ident(x); !ok || b.Name(id.Name) != "x" {
		t.Fatal("ident payload")
	}
	if _, ok := b.Exprs.Ident(NoExprID); ok {
		t.Fatal("NoExprID resolved")
	}
}

// x = 1 + 2
func buildAssign(b *Builder) (FileID, ExprID) {
	x := b.Exprs.NewIdent(sp(0, 1), b.Intern("x"))
	one := b.Exprs.NewLiteral(sp(4, 5), ExprLitInt, b.Intern("1"))
	two := b.Exprs.NewLiteral(sp(8, 9), ExprLitInt, b.Intern("2"))
	sum := b.Exprs.NewBinary(sp(4, 9), ExprBinaryAdd, one, two)
	assign := b.Exprs.NewBinary(sp(0, 9), ExprBinaryAssign, x, sum)
	stmt := b.Stmts.NewExpr(sp(0, 9), assign)
	file := b.NewFile(1, sp(0, 9))
	b.PushItem(file, b.Items.NewStmt(sp(0, 9), stmt))
	return file, assign
}

func TestWalkPreOrder(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file, _ := buildAssign(b)

	var labels []string
	var depths []int
	Walk(b, file, func(n, _ Node, depth int) bool {
		labels = append(labels, b.Label(n))
		depths = append(depths, depth)
		return true
	})
	want := []string{"File", "ItemStmt", "ExprStmt", "Binary =", "Ident x", "Binary +", "Lit int 1", "Lit int 2"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v", labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels = %v", labels)
		}
	}
	if depths[4] != 4 || depths[6] != 5 {
		t.Fatalf("depths = %v", depths)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	b := NewBuilder(Hints{}, nil)
	file, _ := buildAssign(b)
	n := 0
	Walk(b, file, func(node, _ Node, _ int) bool {
		n++
		return node.Kind != NodeStmt
	})
	if n != 3 {
		t.Fatalf("visited %d nodes", n)
	}
}

func TestBinaryOpIsAssign(t *testing.T) {
	for _, op := range []ExprBinaryOp{ExprBinaryAssign, ExprBinaryAddAssign, ExprBinaryModAssign} {
		if !op.IsAssign() {
			t.Errorf("%s should be an assignment", op)
		}
	}
	for _, op := range []ExprBinaryOp{ExprBinaryAdd, ExprBinaryEq, ExprBinaryLogicalOr} {
		if op.IsAssign() {
			t.Errorf("%s is not an assignment", op)
		}
	}
}
