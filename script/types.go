package script

import (
	"fmt"
	"strings"
)

// Severity classifies a compiler diagnostic.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityFatal
)

// String returns the upper-case name used in failure reports.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Location is a source span. End is optional; when present its column is
// exclusive.
type Location struct {
	Start Position  `json:"start"`
	End   *Position `json:"end,omitempty"`
}

// Diagnostic is a compiler-reported issue in transformed coordinates.
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Location *Location `json:"location,omitempty"`
}

// Phase identifies the pipeline stage a failure happened in.
type Phase string

const (
	PhaseCompilation Phase = "COMPILATION"
	PhaseEvaluation  Phase = "EVALUATION"
)

// ExecutionID correlates log lines of a single submission.
type ExecutionID int64

// Result is the outcome of a submission: either a Value or a *Failure.
type Result interface {
	isResult()
}

// Value is a successful outcome.
type Value struct {
	// Payload is the snippet's result. A snippet that produces no value
	// yields Unit{}.
	Payload any `json:"payload"`
}

func (Value) isResult() {}

// Unit marks a snippet that completed without producing a value.
type Unit struct{}

// String returns "Unit".
func (Unit) String() string { return "Unit" }

// Failure is an unsuccessful outcome. Message holds the complete failure
// report, envelope included.
type Failure struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
}

func (*Failure) isResult() {}

// Error returns the failure report.
func (f *Failure) Error() string { return f.Message }

// Frame is one entry of a runtime stack trace.
type Frame struct {
	Function string
	File     string
	Line     int
	Column   int
	Native   bool
}

// String renders the frame the way an unmapped frame appears in reports.
func (f Frame) String() string {
	fn := f.Function
	if fn == "" {
		fn = "<anonymous>"
	}
	if f.Native || f.File == "" {
		return fn + "(native)"
	}
	return fmt.Sprintf("%s(%s:%d)", fn, f.File, f.Line)
}

// Exception is the engine-neutral form of a runtime error raised by a
// snippet. Engines translate their own error values into it.
type Exception struct {
	// Class is the runtime type name, e.g. "TypeError".
	Class   string
	Message string
	// Frames lists the stack, innermost first.
	Frames []Frame
	Cause  *Exception
}

// Error returns "Class: Message".
func (e *Exception) Error() string {
	if e.Message == "" {
		return e.Class
	}
	return e.Class + ": " + e.Message
}

// Unwrap returns the cause, if any.
func (e *Exception) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// sameAs reports whether other is the same failure re-raised, i.e. it
// carries the same class and message.
func (e *Exception) sameAs(other *Exception) bool {
	return other != nil && e.Class == other.Class && e.Message == other.Message
}

func (e *Exception) describe() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for c := e.Cause; c != nil; c = c.Cause {
		b.WriteString("; caused by ")
		b.WriteString(c.Error())
	}
	return b.String()
}
