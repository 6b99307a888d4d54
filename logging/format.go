package logging

import (
	"fmt"
	"strconv"
	"strings"
)

// formatBraces renders the brace template used by the deprecated *f methods:
// "{}" takes the next argument, "{N}" argument N, "{:spec}" / "{N:spec}"
// apply spec as a fmt verb ("{:.3f}" is "%.3f"). "{{" and "}}" are literal
// braces. Missing arguments render as "%!(MISSING)" like fmt does.
func formatBraces(format string, args []any) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				b.WriteString(format[i:])
				return b.String()
			}
			field := format[i+1 : i+end]
			i += end

			index, spec, _ := strings.Cut(field, ":")
			pos := next
			if index != "" {
				n, err := strconv.Atoi(index)
				if err != nil {
					// Named fields have no Go equivalent; keep them verbatim.
					b.WriteString("{" + field + "}")
					continue
				}
				pos = n
			} else {
				next++
			}
			if pos < 0 || pos >= len(args) {
				b.WriteString("%!(MISSING)")
				continue
			}
			b.WriteString(fmt.Sprintf(verbFor(spec), args[pos]))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func verbFor(spec string) string {
	if spec == "" {
		return "%v"
	}
	// Alignment: "<" is fmt's "-" flag, ">" is the default.
	switch spec[0] {
	case '<':
		spec = "-" + spec[1:]
	case '>':
		spec = spec[1:]
	}
	if spec == "" || spec == "-" {
		return "%v"
	}
	switch spec[len(spec)-1] {
	case 'd', 'f', 'e', 'g', 'x', 'X', 'o', 'b', 's', 'E', 'G':
		return "%" + spec
	default:
		return "%" + spec + "v"
	}
}
