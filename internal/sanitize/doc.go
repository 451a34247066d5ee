// Package sanitize validates and cleans raw ticket text before extraction.
//
// Validation and sanitization are separate steps. Callers validate first and
// only sanitize input that passed:
//
//	res := sanitize.Validate(raw, sanitize.DefaultMaxInputLength)
//	if !res.Valid {
//		return res.Errors
//	}
//	clean := sanitize.New(sanitize.DefaultMaxInputLength).Sanitize(raw)
//
// Sanitization is regex based and best effort. It strips script-like markup so
// pasted ticket text cannot smuggle active content into downstream displays;
// it is not an HTML parser and does not escape entities.
package sanitize
