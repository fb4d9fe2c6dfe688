// Package patternfile loads pattern configurations and extra eligible names
// from YAML, TOML or JSON files.
//
// A pattern file looks like:
//
//	patterns:
//	  - variants: ["public", '\[SerializeField\] private']
//	    locate: '(?>^[ \t]*///[ \t]?(?<doc>[^\r\n]*)\r?\n)+(?<decl>(?<indent>^[ \t]*)<variant>\s+\S+\s+\S+;)'
//	    extract: '<summary>(?<comment>.*?)</summary>'
//	names: [EnemySpawner]
//
// Files are validated against the JSON Schema returned by [Schema] before
// they are decoded.
package patternfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/pelletier/go-toml/v2"
)

// Sentinel errors returned by [Load] and [Parse].
var (
	ErrReadFile        = errors.New("read pattern file")
	ErrUnsupportedType = errors.New("unsupported pattern file type")
	ErrInvalid         = errors.New("invalid pattern file")
)

// File is the decoded content of a pattern file.
type File struct {
	Patterns []Pattern `json:"patterns,omitempty" jsonschema:"pattern configurations in priority order; the built-in pattern is used when empty"`
	Names    []string  `json:"names,omitempty"    jsonschema:"container names that are always eligible"`
}

// Pattern is one pattern configuration as written in a file.
type Pattern struct {
	Variants []string `json:"variants"          jsonschema:"visibility variants substituted for <variant>, in priority order"`
	Locate   string   `json:"locate"            jsonschema:"locate pattern template with one <variant> placeholder and doc, decl and indent groups"`
	Extract  string   `json:"extract,omitempty" jsonschema:"optional pattern whose comment group becomes the annotation content"`
	Strict   bool     `json:"strict,omitempty"  jsonschema:"fail instead of writing empty content when extract does not match"`
}

var resolved = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}

	return schema.Resolve(nil)
})

// Schema returns the JSON Schema describing pattern files.
func Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("build pattern file schema: %w", err)
	}

	schema.Title = "tooltipgen pattern file"

	return schema, nil
}

// Load reads and parses the pattern file at path. The format is chosen by
// extension: .yaml, .yml, .toml or .json.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Pattern file path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFile, err)
	}

	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Parse decodes data in the format named by ext (with or without the
// leading dot).
func Parse(data []byte, ext string) (*File, error) {
	jsonData, err := toJSON(data, strings.TrimPrefix(strings.ToLower(ext), "."))
	if err != nil {
		return nil, err
	}

	var instance any

	err = json.Unmarshal(jsonData, &instance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	rs, err := resolved()
	if err != nil {
		return nil, err
	}

	err = rs.Validate(instance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var f File

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.DisallowUnknownFields()

	err = dec.Decode(&f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	for i, p := range f.Patterns {
		if len(p.Variants) == 0 {
			return nil, fmt.Errorf("%w: patterns[%d]: no variants", ErrInvalid, i)
		}

		if p.Locate == "" {
			return nil, fmt.Errorf("%w: patterns[%d]: no locate pattern", ErrInvalid, i)
		}
	}

	return &f, nil
}

func toJSON(data []byte, ext string) ([]byte, error) {
	switch ext {
	case "json":
		return data, nil

	case "yaml", "yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return []byte("{}"), nil
		}

		out, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		return out, nil

	case "toml":
		var doc map[string]any

		err := toml.Unmarshal(data, &doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		if doc == nil {
			doc = map[string]any{}
		}

		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}

		return out, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
}
