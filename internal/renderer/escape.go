package renderer

import (
	"fmt"
	"strings"
)

// specials are the bytes that end a token in the graph text this package
// parses back: the filter, chain and option separators, pad brackets and
// the quoting characters themselves.
const specials = ",;:[]'\\"

// Escape renders an option value so the graph parser keeps it in one piece.
// Values without special characters pass through as-is; anything else is
// wrapped in single quotes, with embedded quotes spelled '\''.
//
// ffmpeg strips the quotes when it splits the graph into filters, before the
// filter splits its own option string on ':'. Quoting therefore protects ','
// ';' and pad brackets, but a ':' or '\'' in a value still reaches the filter
// unprotected. Zoom expressions only need the former.
//
// Every option value written by this package goes through Escape.
func Escape(value string) string {
	if !strings.ContainsAny(value, specials) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(value); i++ {
		if value[i] == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteByte(value[i])
	}
	b.WriteByte('\'')
	return b.String()
}

// Unescape reads a token written by Escape: text between single quotes is
// literal, and outside quotes a backslash takes the next byte verbatim.
func Unescape(token string) (string, error) {
	var b strings.Builder
	quoted := false
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c == '\'':
			quoted = !quoted
		case c == '\\' && !quoted:
			i++
			if i == len(token) {
				return "", fmt.Errorf("dangling backslash in %q", token)
			}
			b.WriteByte(token[i])
		default:
			b.WriteByte(c)
		}
	}
	if quoted {
		return "", fmt.Errorf("unterminated quote in %q", token)
	}
	return b.String(), nil
}

// splitTop splits s on sep, ignoring separators inside quotes or after a
// backslash.
func splitTop(s string, sep byte) []string {
	var parts []string
	quoted := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			quoted = !quoted
		case c == '\\' && !quoted:
			i++
		case c == sep && !quoted:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
