package rustache

import "strings"

// EscapeFunc transforms a variable's string form before it is written,
// for escaped ({{name}}) variables. Unescaped variables ({{{name}}},
// {{&name}}) bypass it entirely.
type EscapeFunc func(string) string

// DefaultEscape applies the standard five-entity HTML escape table.
// Ampersand is replaced first, matching the teacher library's own
// filterEscape ordering, so that entities introduced by the later
// replacements are never themselves re-escaped.
func DefaultEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}
