package tooltip

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// PathFilter selects the source files worth visiting.
type PathFilter struct {
	// Extensions lists accepted file extensions, including the dot.
	Extensions []string
	// Exclude lists path fragments (slash separated) that rule a path out,
	// such as "Library/".
	Exclude []string
}

// DefaultPathFilter accepts C# files outside Unity's package cache and
// library folders.
func DefaultPathFilter() PathFilter {
	return PathFilter{
		Extensions: []string{".cs"},
		Exclude:    []string{"Packages/", "Library/"},
	}
}

// Match reports whether path has an accepted extension and contains no
// excluded fragment.
func (f PathFilter) Match(path string) bool {
	if !slices.Contains(f.Extensions, filepath.Ext(path)) {
		return false
	}

	return !f.excluded(filepath.ToSlash(path))
}

// Excluded reports whether the directory dir is ruled out.
func (f PathFilter) Excluded(dir string) bool {
	return f.excluded(filepath.ToSlash(dir) + "/")
}

func (f PathFilter) excluded(slashPath string) bool {
	for _, fragment := range f.Exclude {
		if fragment != "" && strings.Contains(slashPath, fragment) {
			return true
		}
	}

	return false
}

// Collect expands roots into a sorted list of matching files. Directories
// are walked recursively, skipping excluded subtrees. Files named directly
// are kept when their extension is accepted.
func (f PathFilter) Collect(roots ...string) ([]string, error) {
	var files []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
		}

		if !info.IsDir() {
			if slices.Contains(f.Extensions, filepath.Ext(root)) {
				files = append(files, root)
			}

			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && f.Excluded(path) {
					return filepath.SkipDir
				}

				return nil
			}

			if f.Match(path) {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, root, err)
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}
