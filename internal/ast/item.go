package ast

import (
	"quill/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
	// ItemStmt is a statement written at top level.
	ItemStmt
	// ItemError stands in for a top-level construct that could not be parsed.
	ItemError
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "Fn"
	case ItemStmt:
		return "Stmt"
	case ItemError:
		return "Error"
	}
	return "Item(?)"
}

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// FnParam is one name in a function's parameter list.
type FnParam struct {
	Name source.StringID
	Span source.Span
}

type FnItem struct {
	Name     source.StringID
	NameSpan source.Span
	Params   []FnParam
	Body     StmtID
}

type StmtItem struct {
	Stmt StmtID
}

type Items struct {
	Arena *Arena[Item]
	Fns   *Arena[FnItem]
	Stmts *Arena[StmtItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Fns:   NewArena[FnItem](capHint),
		Stmts: NewArena[StmtItem](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payload PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewFn(span source.Span, name source.StringID, nameSpan source.Span, params []FnParam, body StmtID) ItemID {
	payload := i.Fns.Allocate(FnItem{
		Name:     name,
		NameSpan: nameSpan,
		Params:   append([]FnParam(nil), params...),
		Body:     body,
	})
	return i.New(ItemFn, span, PayloadID(payload))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

// NewStmt wraps a top-level statement; the item span is the statement span.
func (i *Items) NewStmt(span source.Span, stmt StmtID) ItemID {
	payload := i.Stmts.Allocate(StmtItem{Stmt: stmt})
	return i.New(ItemStmt, span, PayloadID(payload))
}

func (i *Items) Stmt(id ItemID) (*StmtItem, bool) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemStmt {
		return nil, false
	}
	return i.Stmts.Get(uint32(item.Payload)), true
}

func (i *Items) NewError(span source.Span) ItemID {
	return i.New(ItemError, span, NoPayloadID)
}
