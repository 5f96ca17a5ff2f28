// Package script executes short source snippets against named, typed
// dependencies and reports failures against the snippet's own coordinates.
//
// A snippet is rewritten before it reaches the compiler: everything after the
// last import line is wrapped into a task bound to the engine's supervision
// scope. Diagnostics and stack frames coming back from the compiler and the
// runtime are mapped back through that rewrite, so line numbers in a failure
// report always refer to the text the caller submitted.
//
// # Architecture
//
//   - [Engine]: the pluggable compiler/runtime. It compiles transformed
//     source into an [Artifact] and evaluates artifacts with bound values.
//
//   - [Executor]: the entry point. Every [Executor.Execute] call runs as an
//     isolated child of the executor's [Scope]; [Executor.Close] waits for
//     all of them before tearing the scope down.
//
//   - [Reporter]: renders [Diagnostic] lists and [Exception] chains into the
//     failure envelope returned inside a [Failure].
//
// # Results
//
// Execute returns a [Result] that is either a [Value] or a [*Failure]. Snippet
// failures are never returned as Go errors; the error return is reserved for
// misuse such as duplicate dependency names, and wraps [ErrMisuse].
//
// # Failure Envelope
//
// A failure message looks like:
//
//	<script-failure phase="COMPILATION">
//	[ERROR] Unresolved reference 'asdf'
//	  at line 1
//	  | <error>asdf</error>
//
//	</script-failure>
package script
