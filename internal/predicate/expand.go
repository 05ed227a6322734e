package predicate

import "strings"

// Expand substitutes arg into every "{}" placeholder in template. "{{" and
// "}}" are escapes for literal braces, so a template like `CFLAGS="{{}}"`
// survives one expansion round with its braces intact.
func Expand(template, arg string) string {
	var b strings.Builder
	b.Grow(len(template) + len(arg))
	for i := 0; i < len(template); i++ {
		switch {
		case strings.HasPrefix(template[i:], "{{"):
			b.WriteByte('{')
			i++
		case strings.HasPrefix(template[i:], "}}"):
			b.WriteByte('}')
			i++
		case strings.HasPrefix(template[i:], "{}"):
			b.WriteString(arg)
			i++
		default:
			b.WriteByte(template[i])
		}
	}
	return b.String()
}
