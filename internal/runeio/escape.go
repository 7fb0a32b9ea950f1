package runeio

import "strings"

// escapes maps the characters that may follow a backslash in a printed
// string to what they stand for.
var escapes = [256]byte{
	'a':  '\a',
	'b':  '\b',
	'e':  '\\',
	'f':  '\f',
	'n':  '\n',
	'q':  '"',
	'r':  '\r',
	't':  '\t',
	'\\': '\\',
}

// Unescape replaces the backslash escapes in s with the characters they stand
// for. A backslash that starts no known escape stands for itself.
func Unescape(s string) string {
	i := strings.IndexByte(s, '\\')
	if i < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for ; i >= 0; i = strings.IndexByte(s, '\\') {
		sb.WriteString(s[:i])
		s = s[i+1:]
		if len(s) > 0 {
			if c := escapes[s[0]]; c != 0 {
				sb.WriteByte(c)
				s = s[1:]
				continue
			}
		}
		sb.WriteByte('\\')
	}
	sb.WriteString(s)
	return sb.String()
}

// CaretForm returns the ^-escaped printable form of a control character, or
// "" if c isn't one.
func CaretForm(c byte) string {
	if c < 0x20 || c == 0x7f {
		return "^" + string(rune(c^0x40))
	}
	return ""
}

// Visible returns s with any control characters other than newline and tab
// replaced by their caret forms.
func Visible(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if caret := CaretForm(c); caret != "" && c != '\n' && c != '\t' {
			sb.WriteString(caret)
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
