package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"quill/internal/diag"
	"quill/internal/source"
)

type palette struct {
	err, warn, note, gutter, caret, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	if sev == diag.SevWarning {
		return p.warn
	}
	return p.err
}

// Pretty renders every diagnostic of the bag with its source line and a caret
// underline:
//
//	main.ql:1:8: error SYN2002: expected expression, got end of file
//	1 | x = 1 +
//	  |        ^
//	  = expected: expression
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	var b strings.Builder
	f := fs.Get(d.Primary.File)
	start, end := d.Primary.Start, d.Primary.End
	if f != nil {
		start, end = fs.Resolve(d.Primary)
	}
	fmt.Fprintf(&b, "%s: %s %s\n",
		p.bold.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Column),
		p.severity(d.Severity).Sprintf("%s %s", d.Severity.Label(), d.Code.ID()),
		p.bold.Sprint(d.Message))

	lineNo := strconv.FormatUint(uint64(start.Line), 10)
	pad := strings.Repeat(" ", len(lineNo))
	if f != nil {
		line := f.GetLine(start.Line)
		lineStart := lineStartOffset(f, start.Line)
		prefix := sliceClamp(line, 0, start.Offset-lineStart)
		var marked string
		if end.Line == start.Line {
			marked = sliceClamp(line, start.Offset-lineStart, end.Offset-lineStart)
		} else {
			marked = sliceClamp(line, start.Offset-lineStart, uint32(len(line)))
		}
		shown := line
		if opts.Width > 0 && runewidth.StringWidth(shown) > int(opts.Width) {
			shown = runewidth.Truncate(shown, int(opts.Width), "...")
		}
		fmt.Fprintf(&b, "%s %s %s\n", p.gutter.Sprint(lineNo), p.gutter.Sprint("|"), shown)
		width := runewidth.StringWidth(marked)
		if width == 0 {
			width = 1
		}
		fmt.Fprintf(&b, "%s %s %s%s\n", pad, p.gutter.Sprint("|"), indentLike(prefix), p.caret.Sprint(strings.Repeat("^", width)))
	}

	if opts.ShowExpected && len(d.Expected) > 0 {
		fmt.Fprintf(&b, "%s %s expected: %s\n", pad, p.gutter.Sprint("="), strings.Join(d.Expected, ", "))
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns := n.Span.Start
			if nf != nil {
				ns, _ = fs.Resolve(n.Span)
			}
			fmt.Fprintf(&b, "%s %s %s %s:%d:%d: %s\n", pad, p.gutter.Sprint("="), p.note.Sprint("note:"),
				formatPath(nf, fs, opts.PathMode), ns.Line, ns.Column, n.Msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Summary prints a one-line tally such as "2 errors, 1 warning".
func Summary(w io.Writer, bag *diag.Bag, colored bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	p := newPalette(colored)
	errs := bag.Count(diag.SevError)
	warns := bag.Count(diag.SevWarning)
	var parts []string
	if errs > 0 {
		parts = append(parts, p.err.Sprint(plural(errs, "error")))
	}
	if warns > 0 {
		parts = append(parts, p.warn.Sprint(plural(warns, "warning")))
	}
	if dropped := bag.Dropped(); dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped", dropped))
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, ", "))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 || int(line-2) >= len(f.LineIdx) {
		return 0
	}
	return f.LineIdx[line-2] + 1
}

func sliceClamp(s string, from, to uint32) string {
	n := uint32(len(s))
	if from > n {
		from = n
	}
	if to > n {
		to = n
	}
	if to < from {
		return ""
	}
	return s[from:to]
}

// indentLike replaces prefix with blanks of the same display width, keeping tabs
// so the caret lines up under the source line.
func indentLike(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
