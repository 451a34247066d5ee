// Package patterns holds the declarative extraction rules for help-desk tickets.
//
// A Definition is plain data: named regular expressions grouped by ticket type,
// the ordered keyword rules used to infer an escalation reason, the output
// templates and the fixed placeholder strings. Compile validates a Definition
// and returns a read-only Table that processors share across calls.
//
// # Rule Keys
//
// Rules are looked up by key (RuleName, RuleAgency, ...). The processors own the
// fallback order between keys; the table only owns the expressions. Every rule
// has one capture group whose trimmed text is the extracted value, except
// RuleNameReversed which captures the last name in group 1 and the first name
// in group 2.
//
// # Overrides
//
// LoadFile merges a TOML rule file over a base Definition:
//
//	placeholder = "Not supplied"
//
//	[phone.agency]
//	pattern = '(?im)^[ \t]*Dept[ \t]*:[ \t]*(.+)$'
//
//	[[templates.phone]]
//	label = "Name"
//	field = "name"
//
// Watcher reloads the file when it changes and hands a freshly compiled Table
// to a callback. A file that fails to compile keeps the previous Table.
package patterns
