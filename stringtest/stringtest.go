// Package stringtest builds expected source text for tests with explicit line
// endings.
package stringtest

import "strings"

// Input removes one leading and one trailing newline from s, then strips the
// indentation common to every non-blank line. Whitespace-only lines become
// empty. Use it to write C# fixtures as indented raw string literals.
//
// Example:
//
//	src := stringtest.Input(`
//		public class Player : MonoBehaviour {
//		    public int health;
//		}
//	`)
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")

	lines := strings.Split(s, "\n")

	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""

			continue
		}

		if indent > 0 {
			lines[i] = line[indent:]
		}
	}

	return strings.Join(lines, "\n")
}

// JoinLF joins multiple strings with LF line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"/// Health.",
//		"public int health;",
//	) // -> "/// Health.\npublic int health;"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// JoinCRLF joins multiple strings with CRLF line endings.
func JoinCRLF(ss ...string) string {
	return strings.Join(ss, "\r\n")
}

// CRLF converts every LF line ending in s to CRLF. Existing CRLF endings are
// left alone.
func CRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	return strings.ReplaceAll(s, "\n", "\r\n")
}
