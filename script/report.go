package script

import (
	"fmt"
	"strings"
)

const (
	envelopeTag = "script-failure"

	errorOpen  = "<error>"
	errorClose = "</error>"

	scriptFrameClass = "Script"
)

// Reporter renders compiler diagnostics and runtime exceptions of one
// submission against the original snippet.
type Reporter struct {
	// Mapper inverts the transformation the snippet went through.
	Mapper Mapper

	// Lines are the original snippet lines.
	Lines []string

	// File is the internal file name positions and frames are reported in.
	File string

	// ScriptFile is the logical file name shown for snippet frames.
	ScriptFile string

	// Ignorable lists message prefixes of debug diagnostics to drop.
	Ignorable []string
}

// NewReporter returns a Reporter for src compiled under the internal name
// file.
func NewReporter(src TransformedSource, dialect Dialect, file, scriptFile string) *Reporter {
	return &Reporter{
		Mapper:     src.Mapper(),
		Lines:      src.Parts.Lines(),
		File:       file,
		ScriptFile: scriptFile,
		Ignorable:  dialect.Ignorable,
	}
}

// Compilation renders a COMPILATION failure. Ignorable diagnostics are left
// out; every other diagnostic gets a block followed by an empty line.
func (r *Reporter) Compilation(diags []Diagnostic) string {
	var b strings.Builder
	openEnvelope(&b, PhaseCompilation)
	for _, d := range diags {
		if r.ignorable(d) {
			continue
		}
		r.writeDiagnostic(&b, d)
		b.WriteByte('\n')
	}
	closeEnvelope(&b)
	return b.String()
}

// Evaluation renders an EVALUATION failure for exc and its causes.
func (r *Reporter) Evaluation(exc *Exception) string {
	var b strings.Builder
	openEnvelope(&b, PhaseEvaluation)
	if exc != nil {
		r.writeException(&b, exc, "")
	}
	closeEnvelope(&b)
	return b.String()
}

func openEnvelope(b *strings.Builder, phase Phase) {
	fmt.Fprintf(b, "<%s phase=%q>\n", envelopeTag, phase)
}

func closeEnvelope(b *strings.Builder) {
	fmt.Fprintf(b, "</%s>\n", envelopeTag)
}

func (r *Reporter) ignorable(d Diagnostic) bool {
	if d.Severity != SeverityDebug {
		return false
	}
	for _, prefix := range r.Ignorable {
		if strings.HasPrefix(d.Message, prefix) {
			return true
		}
	}
	return false
}

func (r *Reporter) writeDiagnostic(b *strings.Builder, d Diagnostic) {
	fmt.Fprintf(b, "[%s] %s\n", d.Severity, d.Message)
	loc := d.Location
	if loc == nil {
		return
	}

	start := r.Mapper.ToOriginal(loc.Start.Line)
	end := start
	if loc.End != nil {
		end = max(start, r.Mapper.ToOriginal(loc.End.Line))
	}
	if start == end {
		fmt.Fprintf(b, "  at line %d\n", start)
	} else {
		fmt.Fprintf(b, "  at lines %d-%d\n", start, end)
	}

	for n := start; n <= end; n++ {
		b.WriteString("  | ")
		b.WriteString(r.markLine(n, start, end, loc))
		b.WriteByte('\n')
	}
}

// markLine returns original line n with the error markers inserted. A
// position on the closer line stands for the end of input.
func (r *Reporter) markLine(n, start, end int, loc *Location) string {
	line := r.line(n)

	startCol := r.column(line, loc.Start)
	endCol := startCol
	if loc.End != nil {
		endCol = r.column(r.line(end), *loc.End)
	}

	switch {
	case n == start && n == end:
		endCol = max(endCol, startCol)
		return line[:startCol] + errorOpen + line[startCol:endCol] + errorClose + line[endCol:]
	case n == start:
		return line[:startCol] + errorOpen + line[startCol:]
	case n == end:
		return line[:endCol] + errorClose + line[endCol:]
	default:
		return line
	}
}

// column converts a 1-based position column into a byte offset clamped to
// line.
func (r *Reporter) column(line string, pos Position) int {
	if r.Mapper.IsCloser(pos.Line) {
		return len(line)
	}
	return min(max(pos.Column-1, 0), len(line))
}

func (r *Reporter) line(n int) string {
	if n < 1 || n > len(r.Lines) {
		return ""
	}
	return r.Lines[n-1]
}

func (r *Reporter) writeException(b *strings.Builder, exc *Exception, prefix string) {
	exc = rethrownCause(exc)

	b.WriteString(prefix)
	b.WriteString(exc.Error())
	b.WriteByte('\n')

	for i, f := range exc.Frames {
		switch {
		case r.isSnippetFrame(f):
			n := r.Mapper.ToOriginal(f.Line)
			fmt.Fprintf(b, "  at %s.%s(%s:%d)\n", scriptFrameClass, frameFunction(f), r.ScriptFile, n)
			fmt.Fprintf(b, "  | %s\n", r.line(n))
		case i == 0:
			fmt.Fprintf(b, "  at %s\n", f)
		}
	}

	if exc.Cause != nil {
		r.writeException(b, exc.Cause, "Caused by: ")
	}
}

// isSnippetFrame reports whether f points into the snippet itself. Frames
// on the wrapper opener belong to the task machinery, not to the snippet.
func (r *Reporter) isSnippetFrame(f Frame) bool {
	return !f.Native && f.File == r.File && f.Line > 0 && !r.Mapper.IsOpener(f.Line)
}

func frameFunction(f Frame) string {
	if f.Function == "" {
		return "<anonymous>"
	}
	return f.Function
}

// rethrownCause skips wrappers that merely re-raise their cause with the
// same class and message.
func rethrownCause(exc *Exception) *Exception {
	for exc.Cause != nil && exc.sameAs(exc.Cause) {
		exc = exc.Cause
	}
	return exc
}
