package token

// Describe returns the user-facing name of k as used in "expected ..." messages:
// quoted spelling for keywords and operators, a phrase for everything else.
func (k Kind) Describe() string {
	switch k {
	case Invalid:
		return "invalid token"
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case StringLit:
		return "string literal"
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	case LineComment, BlockComment:
		return "comment"
	}
	if s, ok := defaultSpelling[k]; ok {
		return "'" + s + "'"
	}
	return k.String()
}

var defaultSpelling = func() map[Kind]string {
	m := make(map[Kind]string, len(defaultKeywords)+len(defaultOperators))
	for s, k := range defaultKeywords {
		m[k] = s
	}
	for _, op := range defaultOperators {
		m[op.Kind] = op.Text
	}
	return m
}()

// Describe names the token for diagnostics, quoting its actual text when it has any.
func (t Token) Describe() string {
	switch {
	case t.Kind == EOF:
		return "end of file"
	case t.Text != "":
		return "'" + t.Text + "'"
	}
	return t.Kind.Describe()
}
