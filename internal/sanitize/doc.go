// Package sanitize strips payload keys that must never reach the language
// model.
//
// The input is the generic shape produced by encoding/json: mappings
// (map[string]any), sequences ([]any) and scalars. Every mapping at every
// depth loses the keys found in the deny-list and the keys whose value is an
// empty sequence. Sequences keep their length and order. Scalars pass
// through unchanged.
//
// Sanitization is idempotent and never mutates its input.
package sanitize
