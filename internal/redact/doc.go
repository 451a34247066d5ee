// Package redact masks credentials and personal identifiers in extracted
// ticket values.
//
// Redaction runs on individual field values after extraction, never on the
// raw ticket, so labels and unrelated fields stay intact. A Redactor applies a
// compiled rule table and, optionally, the gitleaks default rule set.
package redact
