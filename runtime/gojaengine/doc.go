// Package gojaengine implements script.Engine on top of the goja
// ECMAScript runtime.
//
// Snippets are plain JavaScript. The transformer wraps the snippet body into
// an arrow function handed to scope.async; the engine rewrites the last
// expression statement of that function into a return statement, so a
// snippet evaluates to its last expression the way a REPL line does.
//
//	import { title } from "text"
//	const name = "ada lovelace"
//	title(name)              // => "Ada Lovelace"
//
// # Imports
//
// Import lines are resolved against a [ModuleRegistry] at compile time and
// blanked in place before parsing, which keeps every other line and column
// where the snippet had it. Supported forms:
//
//	import { a, b as c } from "mod"
//	import * as m from "mod"
//	import m from "mod"
//	import "mod"
//
// Unknown modules and missing exports are compilation diagnostics.
//
// # Scope
//
// The bound scope object offers async(fn), which runs fn and returns a task
// whose await() yields fn's result or rethrows its exception, and
// delay(ms), which sleeps while honoring cancellation.
package gojaengine
