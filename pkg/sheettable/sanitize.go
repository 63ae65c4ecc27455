package sheettable

import "strings"

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&apos;", "'",
	"&quot;", `"`,
)

// Sanitize decodes the XML entities that upstream exporters leave in text
// values. Null and numeric values are returned unchanged.
func Sanitize(v Value) Value {
	if v.kind != KindString {
		return v
	}
	return String(SanitizeString(v.str))
}

// SanitizeString is Sanitize for plain strings.
func SanitizeString(s string) string {
	if strings.IndexByte(s, '&') < 0 {
		return s
	}
	return entityReplacer.Replace(s)
}
