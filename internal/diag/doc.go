// Package diag defines the diagnostic model shared by the lexer, the parser
// and everything that renders their findings.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Warning or Error.
//   - Code – compact numeric identifier with a stable string form (LEX1001,
//     SYN2003, ...). Code.Kind tells lexical and syntax problems apart.
//   - Message – short, actionable text.
//   - Primary – the source.Span the problem is anchored to.
//   - Expected – token kinds the parser would have accepted (syntax errors only).
//   - Notes – optional secondary spans with extra context.
//
// Diagnostics are values: once emitted they are never mutated.
//
// # Emitting
//
// Producers talk to a Reporter. BagReporter stores into a Bag, DedupReporter
// filters repeats, ReportBuilder chains notes and expectations before Emit.
// Recoverable lexical and syntax problems are always diagnostics, never Go
// errors; the Bag is owned by the driver for one compilation unit.
//
// Package diag does no formatting or IO; renderers live in internal/diagfmt.
package diag
