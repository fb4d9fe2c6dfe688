package tooltip

import "strings"

// Sanitize makes s safe to embed in a single-line, double-quoted C# string
// literal.
//
// Double quotes become single quotes. A backslash that does not start one of
// the escapes \n, \r, \t, \f, \v, \b or \\ becomes a forward slash, including
// a trailing backslash. Sanitize is idempotent.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, `"`, `'`)
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)

			continue
		}

		if i+1 < len(s) && isEscapeLetter(s[i+1]) {
			sb.WriteByte(c)
			sb.WriteByte(s[i+1])

			i++

			continue
		}

		sb.WriteByte('/')
	}

	return sb.String()
}

func isEscapeLetter(c byte) bool {
	switch c {
	case 'n', 'r', 't', 'f', 'v', 'b', '\\':
		return true
	}

	return false
}
