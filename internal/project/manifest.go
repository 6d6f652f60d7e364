package project

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/token"
	"quill/internal/version"
)

var (
	ErrPackageSectionMissing = errors.New("missing [package] section")
	ErrPackageNameMissing    = errors.New("missing [package].name")
)

// Manifest is the decoded quill.toml.
//
//	[package]
//	name = "demo"
//	requires = ">=0.1"
//
//	[lexer]
//	trivia = "attach"
//	max_token_len = 4096
//
//	[parser]
//	max_errors = 100
//
//	[grammar.keywords]
//	funzione = "fn"
type Manifest struct {
	Package PackageSection `toml:"package"`
	Lexer   LexerSection   `toml:"lexer"`
	Parser  ParserSection  `toml:"parser"`
	Grammar GrammarSection `toml:"grammar"`

	// Path is where the manifest was read from; empty for defaults.
	Path string `toml:"-"`
}

type PackageSection struct {
	Name string `toml:"name"`
	// Requires is a semver constraint on the tool version.
	Requires string `toml:"requires"`
}

type LexerSection struct {
	Trivia      string `toml:"trivia"`
	MaxTokenLen int    `toml:"max_token_len"`
}

type ParserSection struct {
	MaxErrors uint `toml:"max_errors"`
}

type GrammarSection struct {
	// Keywords maps an extra spelling onto an existing keyword ("fn") or a kind name ("KwFn").
	Keywords map[string]string `toml:"keywords"`
}

// Default returns the manifest used when no quill.toml is found.
func Default() *Manifest {
	return &Manifest{Lexer: LexerSection{Trivia: lexer.TriviaAttach.String()}}
}

// LoadManifest parses path and validates it.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m.Path = path
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// Discover finds quill.toml above startDir and loads it, falling back to Default.
func Discover(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadManifest(path)
}

// Validate checks everything that can be checked without a source file.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Package.Name) == "" {
		return ErrPackageNameMissing
	}
	if err := version.Check(m.Package.Requires); err != nil {
		return err
	}
	if _, ok := lexer.ParseTriviaMode(m.Lexer.Trivia); !ok {
		return fmt.Errorf("[lexer].trivia: unknown mode %q (want attach, emit or skip)", m.Lexer.Trivia)
	}
	if m.Lexer.MaxTokenLen < 0 {
		return fmt.Errorf("[lexer].max_token_len: must not be negative")
	}
	_, err := m.Table()
	return err
}

// Table builds the grammar table with the [grammar.keywords] aliases applied.
func (m *Manifest) Table() (*token.Table, error) {
	base := token.DefaultTable()
	if len(m.Grammar.Keywords) == 0 {
		return base, nil
	}
	spellings := make([]string, 0, len(m.Grammar.Keywords))
	for s := range m.Grammar.Keywords {
		spellings = append(spellings, s)
	}
	sort.Strings(spellings)

	table := base
	for _, spelling := range spellings {
		target := m.Grammar.Keywords[spelling]
		kind, ok := base.LookupKeyword(target)
		if !ok {
			kind, ok = token.ParseKind(target)
		}
		if !ok {
			return nil, fmt.Errorf("[grammar.keywords].%s: unknown keyword %q", spelling, target)
		}
		next, err := table.WithKeyword(spelling, kind)
		if err != nil {
			return nil, fmt.Errorf("[grammar.keywords]: %w", err)
		}
		table = next
	}
	return table, nil
}

// LexerOptions turns the [lexer] and [grammar] sections into lexer options.
// The reporter is left for the caller.
func (m *Manifest) LexerOptions() (lexer.Options, error) {
	mode, ok := lexer.ParseTriviaMode(m.Lexer.Trivia)
	if !ok {
		return lexer.Options{}, fmt.Errorf("[lexer].trivia: unknown mode %q", m.Lexer.Trivia)
	}
	table, err := m.Table()
	if err != nil {
		return lexer.Options{}, err
	}
	return lexer.Options{Trivia: mode, Table: table, MaxTokenLen: m.Lexer.MaxTokenLen}, nil
}

// ParserOptions combines the [parser] section with LexerOptions.
func (m *Manifest) ParserOptions() (parser.Options, error) {
	lx, err := m.LexerOptions()
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{MaxErrors: m.Parser.MaxErrors, Lexer: lx}, nil
}

// Starter renders the quill.toml written by `quill init`.
func Starter(name string) ([]byte, error) {
	m := Manifest{
		Package: PackageSection{Name: name, Requires: ">=" + releaseCore()},
		Lexer:   LexerSection{Trivia: lexer.TriviaAttach.String()},
		Parser:  ParserSection{MaxErrors: 100},
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func releaseCore() string {
	v, err := version.Semver()
	if err != nil {
		return "0.0.0"
	}
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}
