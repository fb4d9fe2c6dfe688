// Package tooltip attaches Unity [Tooltip] attributes to C# fields, using the
// fields' `///` documentation comments as tooltip text.
//
// Given
//
//	using UnityEngine;
//
//	public class Player : MonoBehaviour {
//	    /// <summary>
//	    /// Hit points left.
//	    /// </summary>
//	    public int health;
//	}
//
// a [Generator] inserts `[Tooltip("Hit points left.")]` on its own line
// directly above `public int health;`. Running it again changes nothing. When
// the documentation changes, the stale attribute is replaced.
//
// # Matching
//
// Matching is pattern based; sources are never parsed. A [Pattern] pairs a
// locate template with visibility variants ("public", `\[SerializeField\]
// private`). The template is compiled once per variant with
// [github.com/dlclark/regexp2], which supports the lookarounds, atomic groups
// and repeated captures the patterns rely on. Each match yields the
// documentation lines, the declaration and its indentation, and any existing
// annotation. Group names are listed as the Group constants.
//
// An optional extract pattern narrows the joined documentation down to the
// annotation content, e.g. the text inside <summary>. When it does not match,
// the content is empty and nothing is written, unless the pattern was built
// with [WithStrictExtract].
//
// # Rewriting
//
// [Generator.Process] first checks that the text declares a class whose
// header mentions an eligible name (see [NameSet.Declared]). It then runs every
// pattern and variant in order. Within one pass all matches are found up
// front and edited left to right; each edit shifts later offsets by the net
// length it added, and that running delta is applied to every later match of
// the pass. The next pass matches against the edited text.
//
// Annotations have the exact form
//
//	<indent>[Tooltip("<content>")]<newline>
//
// where Tooltip is written as UnityEngine.Tooltip unless the source contains
// `using UnityEngine;`. Content never holds a double quote or a backslash
// outside a valid escape (see [Sanitize]).
//
// # Files
//
// [Generator.ProcessFile] reads a file, processes it and writes it back only
// when it changed. Unreadable files and outputs denied by permissions are
// logged and reported as not updated. [Batch] runs many files concurrently
// and [PathFilter] selects which files to visit.
//
// [Tooltip]: https://docs.unity3d.com/ScriptReference/TooltipAttribute.html
package tooltip
