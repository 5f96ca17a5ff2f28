package script

import "strings"

// ScriptParts is a snippet split into its import prefix and its body.
// Imports followed by Body reconstructs the snippet line for line.
type ScriptParts struct {
	Imports []string
	Body    []string
}

// Split cuts snippet after the last line starting with importPrefix. Lines
// before that point stay in Imports even when they are not imports
// themselves. Without any import line the whole snippet is the body.
func Split(snippet, importPrefix string) ScriptParts {
	lines := strings.Split(snippet, "\n")
	last := -1
	if importPrefix != "" {
		for i, line := range lines {
			if strings.HasPrefix(line, importPrefix) {
				last = i
			}
		}
	}
	if last < 0 {
		return ScriptParts{Body: lines}
	}
	return ScriptParts{
		Imports: lines[:last+1],
		Body:    lines[last+1:],
	}
}

// Join reassembles the original snippet.
func (p ScriptParts) Join() string {
	all := make([]string, 0, len(p.Imports)+len(p.Body))
	all = append(all, p.Imports...)
	all = append(all, p.Body...)
	return strings.Join(all, "\n")
}

// Lines returns the original snippet lines.
func (p ScriptParts) Lines() []string {
	all := make([]string, 0, len(p.Imports)+len(p.Body))
	all = append(all, p.Imports...)
	return append(all, p.Body...)
}

// TransformedSource is a snippet with its body wrapped into a task bound to
// the scope dependency.
type TransformedSource struct {
	Parts  ScriptParts
	Opener string
	Closer string
}

// Transform wraps the body of snippet for dialect. The wrapper opener and
// closer each occupy a line of their own and within-line content is never
// changed, so only line numbers shift.
func Transform(snippet string, dialect Dialect) TransformedSource {
	return TransformedSource{
		Parts:  Split(snippet, dialect.ImportPrefix),
		Opener: dialect.Opener(ScopeName),
		Closer: dialect.Closer,
	}
}

// String returns the text handed to the compiler.
func (t TransformedSource) String() string {
	var b strings.Builder
	for _, line := range t.Parts.Imports {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(t.Opener)
	b.WriteByte('\n')
	for _, line := range t.Parts.Body {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(t.Closer)
	return b.String()
}

// LineCount returns the number of lines of String().
func (t TransformedSource) LineCount() int {
	return len(t.Parts.Imports) + len(t.Parts.Body) + 2
}

// Mapper returns the coordinate mapper inverting this transformation.
func (t TransformedSource) Mapper() Mapper {
	return Mapper{
		ImportCount: len(t.Parts.Imports),
		LineCount:   t.LineCount(),
	}
}
