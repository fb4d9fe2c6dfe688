package main

import (
	"fmt"
	"io"
	"strings"
)

// printDiff writes a simple unified-style diff of a and b.
func printDiff(w io.Writer, path, a, b string, color bool) {
	paint := func(code, s string) string {
		if !color {
			return s
		}

		return code + s + ansiReset
	}

	fmt.Fprintln(w, paint(ansiBold, "--- "+path))
	fmt.Fprintln(w, paint(ansiBold, "+++ "+path))

	removed := func(line string) { fmt.Fprintln(w, paint(ansiRed, "-"+line)) }
	added := func(line string) { fmt.Fprintln(w, paint(ansiGreen, "+"+line)) }

	aLines := strings.Split(a, "\n")
	bLines := strings.Split(b, "\n")

	// Simple line-by-line diff with a short lookahead. Inserted annotations
	// are single lines, so this stays aligned for the common case.
	ai, bi := 0, 0
	for ai < len(aLines) || bi < len(bLines) {
		switch {
		case ai >= len(aLines):
			added(bLines[bi])

			bi++

		case bi >= len(bLines):
			removed(aLines[ai])

			ai++

		case aLines[ai] == bLines[bi]:
			fmt.Fprintln(w, " "+aLines[ai])

			ai++
			bi++

		default:
			found := false

			for lookahead := 1; lookahead < 5 && ai+lookahead < len(aLines); lookahead++ {
				if aLines[ai+lookahead] == bLines[bi] {
					for j := range lookahead {
						removed(aLines[ai+j])
					}

					ai += lookahead
					found = true

					break
				}
			}

			if !found {
				for lookahead := 1; lookahead < 5 && bi+lookahead < len(bLines); lookahead++ {
					if bLines[bi+lookahead] == aLines[ai] {
						for j := range lookahead {
							added(bLines[bi+j])
						}

						bi += lookahead
						found = true

						break
					}
				}
			}

			if !found {
				removed(aLines[ai])
				added(bLines[bi])

				ai++
				bi++
			}
		}
	}
}
