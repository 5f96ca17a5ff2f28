// Package mcpserver serves a script.Executor over the Model Context
// Protocol.
//
// Two tools are registered:
//
//   - execute_script runs one snippet and returns its value, or the failure
//     report as an error result
//   - execute_requests runs every <run-script> block found in a piece of
//     model output, in order
//
// Dependencies are obtained per call from a script.Provider keyed by the
// session name given in the request, or by the MCP session ID.
package mcpserver
