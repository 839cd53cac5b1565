package engine

import (
	"html/template"
	"strings"
)

// cssUnsafe lists characters that could terminate a declaration or the
// surrounding attribute.
const cssUnsafe = ";{}<>\"'`\\"

// cssValue makes a user supplied value safe to drop into a single CSS
// declaration. Colors are not validated: "notacolor" is emitted as is and
// the browser ignores it. Only values that could break out of the
// declaration or load external resources are removed.
func cssValue(v string) string {
	v = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(cssUnsafe, r) {
			return -1
		}
		return r
	}, v)
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	if strings.Contains(lower, "url(") || strings.Contains(lower, "expression(") || strings.Contains(lower, "image-set(") {
		return ""
	}
	return v
}

// declarations renders name/value pairs as an inline style, skipping the
// ones whose value is empty after sanitizing.
func declarations(pairs ...string) template.CSS {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		val := cssValue(pairs[i+1])
		if val == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(pairs[i])
		b.WriteString(": ")
		b.WriteString(val)
	}
	return template.CSS(b.String())
}
