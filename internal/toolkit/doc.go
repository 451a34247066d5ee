// Package toolkit is the entry point shared by the CLI, HTTP and MCP
// surfaces. A Service owns the compiled rule table, both processors, the
// value redactor and the event bus, and swaps in a new table atomically when
// the rules are reloaded.
package toolkit
