package parser

import (
	"context"
	"slices"

	"quill/internal/ast"
	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/source"
	"quill/internal/token"
)

// Lookahead is how many tokens the grammar ever looks at: the current one
// plus one more (Peek(1)). The stream is sized to it, so a rule that tried to
// look further would fail loudly instead of silently growing the buffer.
const Lookahead = 2

type Options struct {
	// MaxErrors stops reporting after that many error diagnostics
	// (one SynTooManyErrors is added). 0 means unlimited.
	MaxErrors uint
	// Reporter, if set, receives every diagnostic as it is produced,
	// in addition to Result.Bag.
	Reporter diag.Reporter
	// Lexer options; Reporter and Trivia are overridden by the parser.
	Lexer lexer.Options
}

type Result struct {
	File ast.FileID
	// Bag holds lexical and syntax diagnostics sorted by span.
	Bag *diag.Bag
	// Err is non-nil only when ctx was cancelled; the tree is then partial.
	Err error
}

// Parser: состояние парсера на один файл
type Parser struct {
	ts       *lexer.Stream
	arenas   *ast.Builder
	file     ast.FileID
	src      *source.File
	opts     Options
	bag      *diag.Bag
	errors   uint
	muted    bool        // MaxErrors reached
	quiet    int         // >0: syntax diagnostics are dropped (lexical ones still pass)
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile parses one file into arenas. It never fails on malformed input:
// problems become diagnostics and placeholder nodes.
func ParseFile(
	ctx context.Context,
	fs *source.FileSet,
	fileID source.FileID,
	arenas *ast.Builder,
	opts Options,
) Result {
	file := fs.Get(fileID)
	p := &Parser{
		arenas: arenas,
		src:    file,
		opts:   opts,
		bag:    diag.NewBag(0),
	}

	lexOpts := opts.Lexer
	lexOpts.Reporter = parserReporter{p}
	// парсеру нужны trivia только как Leading (перевод строки перед return-значением)
	lexOpts.Trivia = lexer.TriviaAttach
	lx := lexer.New(file, lexOpts)
	p.ts = lexer.NewStream(lx, Lookahead-1)
	p.lastSpan = lx.EmptySpan()
	p.file = arenas.NewFile(fileID, lx.EmptySpan())

	err := p.parseItems(ctx)
	p.bag.Sort()
	return Result{File: p.file, Bag: p.bag, Err: err}
}

// ParseSource parses src as a virtual file named name into a fresh builder.
func ParseSource(name string, src []byte, opts Options) (*ast.Builder, ast.FileID, []diag.Diagnostic) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(context.Background(), fs, id, b, opts)
	return b, res.File, res.Bag.Items()
}

func (p *Parser) peek() token.Token {
	return p.ts.Current()
}

// peekNext returns the token after the current one.
func (p *Parser) peekNext() token.Token {
	tok, err := p.ts.Peek(1)
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// parseItems: основной цикл верхнего уровня: пока не EOF - parseItem.
// Context cancellation is checked between items.
func (p *Parser) parseItems(ctx context.Context) error {
	for !p.at(token.EOF) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.at(token.RBrace) {
			tok := p.advance()
			p.errorAt(diag.SynUnexpectedTopLevel, tok.Span, "unexpected '}' at top level")
			continue
		}
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}

		start := p.peek().Span.Start.Offset
		itemID, ok := p.parseItem()
		p.arenas.PushItem(p.file, itemID)
		if !ok {
			p.resyncTop()
		}
		p.ensureProgress(start)
	}

	eof := p.peek()
	f := p.arenas.Files.Get(p.file)
	f.Span = source.MustSpan(eof.Span.File, source.StartOfFile(), eof.Span.End)
	return nil
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции:
// fn declaration or a statement.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	if p.at(token.KwFn) {
		return p.parseFnItem()
	}
	stmt, ok := p.parseStmt()
	sp := p.arenas.Stmts.Get(stmt).Span
	return p.arenas.Items.NewStmt(sp, stmt), ok
}

// ensureProgress consumes one token when a rule returned without moving,
// so no loop can spin on the same token.
func (p *Parser) ensureProgress(start uint32) {
	if !p.at(token.EOF) && p.peek().Span.Start.Offset == start {
		p.advance()
	}
}
