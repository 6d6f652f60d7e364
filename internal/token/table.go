package token

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Operator binds an operator spelling to its kind.
type Operator struct {
	Text string
	Kind Kind
}

// Table is the grammar table the lexer consults: keyword spellings and
// operator spellings. A Table is immutable after construction; the With*
// methods return modified copies, so one table can be shared by many
// lexers running in parallel.
type Table struct {
	keywords  map[string]Kind
	operators []Operator // sorted by descending length for maximal munch
	maxOpLen  int
}

var defaultKeywords = map[string]Kind{
	"fn":       KwFn,
	"let":      KwLet,
	"mut":      KwMut,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"true":     KwTrue,
	"false":    KwFalse,
	"nil":      KwNil,
	"and":      KwAnd,
	"or":       KwOr,
	"not":      KwNot,
}

var defaultOperators = []Operator{
	{"+=", PlusAssign}, {"-=", MinusAssign}, {"*=", StarAssign},
	{"/=", SlashAssign}, {"%=", PercentAssign},
	{"==", EqEq}, {"!=", BangEq}, {"<=", LtEq}, {">=", GtEq},
	{"&&", AndAnd}, {"||", OrOr}, {"->", Arrow},
	{"+", Plus}, {"-", Minus}, {"*", Star}, {"/", Slash}, {"%", Percent},
	{"=", Assign}, {"<", Lt}, {">", Gt}, {"!", Bang},
	{"(", LParen}, {")", RParen}, {"{", LBrace}, {"}", RBrace},
	{"[", LBracket}, {"]", RBracket},
	{",", Comma}, {";", Semicolon}, {":", Colon}, {".", Dot},
}

// DefaultTable returns the built-in quill grammar table.
func DefaultTable() *Table {
	return newTable(maps.Clone(defaultKeywords), slices.Clone(defaultOperators))
}

func newTable(keywords map[string]Kind, ops []Operator) *Table {
	slices.SortStableFunc(ops, func(a, b Operator) int {
		return len(b.Text) - len(a.Text)
	})
	maxLen := 0
	for _, op := range ops {
		maxLen = max(maxLen, len(op.Text))
	}
	return &Table{keywords: keywords, operators: ops, maxOpLen: maxLen}
}

// WithKeyword returns a copy of t where spelling also lexes as kind.
// kind must be a keyword kind and spelling a valid identifier.
func (t *Table) WithKeyword(spelling string, kind Kind) (*Table, error) {
	if !kind.IsKeyword() {
		return nil, fmt.Errorf("keyword alias %q: %s is not a keyword kind", spelling, kind)
	}
	if spelling == "" || !isIdentSpelling(spelling) {
		return nil, fmt.Errorf("keyword alias %q: not an identifier", spelling)
	}
	kw := maps.Clone(t.keywords)
	kw[spelling] = kind
	return newTable(kw, slices.Clone(t.operators)), nil
}

// WithoutKeyword returns a copy of t where spelling lexes as a plain identifier.
func (t *Table) WithoutKeyword(spelling string) *Table {
	kw := maps.Clone(t.keywords)
	delete(kw, spelling)
	return newTable(kw, slices.Clone(t.operators))
}

// LookupKeyword returns the keyword kind for ident. Keywords are case sensitive.
func (t *Table) LookupKeyword(ident string) (Kind, bool) {
	k, ok := t.keywords[ident]
	return k, ok
}

// MatchOperator returns the longest operator spelling that prefixes src.
func (t *Table) MatchOperator(src string) (Operator, bool) {
	if len(src) > t.maxOpLen {
		src = src[:t.maxOpLen]
	}
	for _, op := range t.operators {
		if strings.HasPrefix(src, op.Text) {
			return op, true
		}
	}
	return Operator{}, false
}

// Keywords returns the keyword spellings sorted alphabetically.
func (t *Table) Keywords() []string {
	return slices.Sorted(maps.Keys(t.keywords))
}

// Fingerprint is a stable description of the table, used as part of cache keys.
func (t *Table) Fingerprint() string {
	var b strings.Builder
	for _, kw := range t.Keywords() {
		fmt.Fprintf(&b, "%s=%d;", kw, t.keywords[kw])
	}
	for _, op := range t.operators {
		fmt.Fprintf(&b, "%s=%d;", op.Text, op.Kind)
	}
	return b.String()
}

func isIdentSpelling(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
