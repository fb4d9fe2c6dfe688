package tooltip

import (
	"maps"
	"slices"
	"strings"
)

// DefaultKeyword introduces a declaration container in C# sources.
const DefaultKeyword = "class "

// NameSet is an immutable set of declaration container names, such as the
// classes deriving from MonoBehaviour in a Unity project.
//
// The zero value is an empty set. Create instances with [NewNameSet].
type NameSet struct {
	names map[string]struct{}
}

// NewNameSet returns a [NameSet] holding names. Empty and duplicate names are
// dropped.
func NewNameSet(names ...string) NameSet {
	set := make(map[string]struct{}, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		set[name] = struct{}{}
	}

	return NameSet{names: set}
}

// Contains reports whether name is in the set.
func (s NameSet) Contains(name string) bool {
	_, ok := s.names[name]

	return ok
}

// Len returns the number of names in the set.
func (s NameSet) Len() int {
	return len(s.names)
}

// Names returns the names in the set, sorted.
func (s NameSet) Names() []string {
	return slices.Sorted(maps.Keys(s.names))
}

// Union returns a new [NameSet] holding the names of s and other.
func (s NameSet) Union(other NameSet) NameSet {
	set := make(map[string]struct{}, len(s.names)+len(other.names))

	maps.Copy(set, s.names)
	maps.Copy(set, other.names)

	return NameSet{names: set}
}

// Declared reports whether text declares at least one container whose header
// mentions a name in s.
//
// The text is split on keyword. For every fragment after the first, the
// header is the text up to the first "{"; fragments without a "{" are
// skipped. A header matches when any name occurs in it as a substring, so
// "PlayerBase" matches the name "Player". This is a deliberately loose
// heuristic.
func (s NameSet) Declared(text, keyword string) bool {
	if len(s.names) == 0 || keyword == "" {
		return false
	}

	fragments := strings.Split(text, keyword)
	for _, fragment := range fragments[1:] {
		header, _, found := strings.Cut(fragment, "{")
		if !found {
			continue
		}

		for name := range s.names {
			if strings.Contains(header, name) {
				return true
			}
		}
	}

	return false
}

// IsEligible reports whether text declares a class whose header mentions a
// name in names. It is [NameSet.Declared] with [DefaultKeyword].
func IsEligible(text string, names NameSet) bool {
	return names.Declared(text, DefaultKeyword)
}
