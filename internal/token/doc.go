// Package token defines lexical token kinds, trivia and the grammar table of
// the quill language.
// Invariants:
//   - Token.Text is a substring of the file's text (no copies).
//   - Token.Span covers Text exactly.
//   - Keywords and operator spellings come from a Table; the lexer never
//     hard-codes them, so dialects can alias keywords without touching the
//     parser.
package token
