package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Reporter renders errors against a Sources registry as multi-line,
// span-anchored diagnostics: a `path:line: <title>` header, a `|` gutter
// per source line, the offending line with a caret, then the message.
// Colors are optional; Color is the single toggle between ANSI and plain
// text (ORIGINAL §4.7).
type Reporter struct {
	Sources *Sources
	Color   bool
}

// NewReporter auto-detects whether w is a terminal to pick the Color
// default; callers may still override Reporter.Color explicitly.
func NewReporter(sources *Sources, w io.Writer) *Reporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Reporter{Sources: sources, Color: color}
}

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
)

func (r *Reporter) wrap(code, s string) string {
	if !r.Color {
		return s
	}
	return code + s + ansiReset
}

// Render writes the full causal-chain rendering of err to w: a title line,
// then one labeled span per (location, message) pair from the innermost
// cause outward.
func (r *Reporter) Render(w io.Writer, err Error) {
	labels := collectLabels(err)
	if len(labels) == 0 {
		return
	}
	head := labels[0]
	line, _ := r.Sources.LineCol(head.loc.Source, head.loc.Start)
	fmt.Fprintf(w, "%s:%d: %s\n", r.Sources.Path(head.loc.Source), line, r.wrap(ansiBold, err.Title()))
	for _, lbl := range labels {
		r.renderLabel(w, lbl)
	}
}

type label struct {
	loc Location
	msg string
}

// collectLabels walks a ContextCaused chain outward-in, accumulating an
// ordered (location, message) label per layer, innermost first.
func collectLabels(err Error) []label {
	if err.Kind == KContextCaused {
		inner := collectLabels(*err.Wrapped)
		return append(inner, label{loc: err.Loc, msg: causeText(err.Because)})
	}
	return []label{{loc: err.Loc, msg: err.Title()}}
}

func (r *Reporter) renderLabel(w io.Writer, lbl label) {
	startLine, startCol := r.Sources.LineCol(lbl.loc.Source, lbl.loc.Start)
	endLine, endCol := r.Sources.LineCol(lbl.loc.Source, max(lbl.loc.End-1, lbl.loc.Start))

	if startLine == endLine {
		src := r.Sources.Line(lbl.loc.Source, startLine)
		fmt.Fprintf(w, "%4d | %s\n", startLine, src)
		caret := strings.Repeat(" ", startCol-1) + r.wrap(ansiRed, strings.Repeat("^", max(endCol-startCol+1, 1)))
		fmt.Fprintf(w, "     | %s %s\n", caret, lbl.msg)
		return
	}

	for ln := startLine; ln <= endLine; ln++ {
		src := r.Sources.Line(lbl.loc.Source, ln)
		fmt.Fprintf(w, "%4d | %s\n", ln, src)
		switch ln {
		case startLine:
			fmt.Fprintf(w, "     | %s%s\n", strings.Repeat(" ", startCol-1), r.wrap(ansiRed, "^"))
		case endLine:
			fmt.Fprintf(w, "     | %s%s %s\n", strings.Repeat(" ", endCol-1), r.wrap(ansiRed, "^"), lbl.msg)
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
