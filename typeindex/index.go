package typeindex

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"

	"go.jacobcolvin.com/tooltipgen/tooltip"
)

// DefaultSeeds are the Unity base types whose descendants are serialized by
// the inspector.
var DefaultSeeds = []string{"MonoBehaviour", "ScriptableObject"}

var (
	// Literals are matched so that comment markers inside them are not taken
	// as comments. Their contents are blanked.
	commentRe = regexp2.MustCompile(
		`"(?:[^"\\\r\n]|\\.)*"|'(?:[^'\\\r\n]|\\.)*'|//[^\r\n]*|/\*.*?\*/`,
		regexp2.Singleline)

	declRe = regexp2.MustCompile(
		`(?<attrs>(?:\[[^\]]*\]\s*)*)`+
			`(?:(?:public|internal|private|protected|sealed|abstract|static|partial|unsafe|readonly|new|ref)\s+)*`+
			`(?<kind>class|struct)\s+(?<name>@?[\p{L}_][\p{L}\p{N}_]*)\s*(?:<[^{:]*?>)?\s*`+
			`(?::\s*(?<bases>[^{]*?))?\s*(?:\bwhere\b[^{]*)?\{`,
		regexp2.None)

	serializableRe = regexp2.MustCompile(
		`(?<=[\[,]\s*)(?:global::)?(?:System\.)?Serializable(?:Attribute)?\s*(?=[\],(])`,
		regexp2.None)
)

// Decl is one class or struct declaration.
type Decl struct {
	Name  string
	Bases []string
	// Serializable reports whether the declaration carries the Serializable
	// attribute.
	Serializable bool
}

// Scan returns the class and struct declarations in text, in source order.
func Scan(text string) ([]Decl, error) {
	stripped, err := commentRe.ReplaceFunc(text, func(m regexp2.Match) string {
		lit := m.String()
		if strings.HasPrefix(lit, "/") {
			return ""
		}

		return blankLiteral(lit)
	}, -1, -1)
	if err != nil {
		return nil, fmt.Errorf("strip comments: %w", err)
	}

	var decls []Decl

	m, err := declRe.FindStringMatch(stripped)
	for ; m != nil && err == nil; m, err = declRe.FindNextMatch(m) {
		d := Decl{Name: strings.TrimPrefix(m.GroupByName("name").String(), "@")}

		for _, base := range splitBases(m.GroupByName("bases").String()) {
			if name := baseName(base); name != "" {
				d.Bases = append(d.Bases, name)
			}
		}

		if attrs := m.GroupByName("attrs").String(); attrs != "" {
			d.Serializable, err = serializableRe.MatchString(attrs)
			if err != nil {
				return nil, fmt.Errorf("match attributes: %w", err)
			}
		}

		decls = append(decls, d)
	}

	if err != nil {
		return nil, fmt.Errorf("scan declarations: %w", err)
	}

	return decls, nil
}

// blankLiteral replaces everything between the quotes of a string or char
// literal with spaces.
func blankLiteral(lit string) string {
	quote := lit[:1]
	inner := utf8.RuneCountInString(lit) - 2

	return quote + strings.Repeat(" ", max(inner, 0)) + quote
}

// splitBases splits a base list on commas outside generic arguments.
func splitBases(s string) []string {
	var (
		parts []string
		depth int
		start int
	)

	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}

// baseName reduces a base list entry such as "global::Game.Pool<Enemy>" to
// "Pool".
func baseName(s string) string {
	s = strings.TrimSpace(s)

	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}

	if i := strings.LastIndex(s, "::"); i >= 0 {
		s = s[i+2:]
	}

	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}

	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}

// Option configures an [Index].
type Option func(*Index)

// WithSeeds replaces [DefaultSeeds].
func WithSeeds(seeds ...string) Option {
	return func(x *Index) {
		x.seeds = seeds
	}
}

// WithEncoding sets the encoding used by [Index.Load]. The default reads
// UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(x *Index) {
		x.enc = enc
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(x *Index) {
		x.logger = logger
	}
}

// Index holds the declarations of a set of source files. It is safe for
// concurrent use.
type Index struct {
	enc    encoding.Encoding
	logger *slog.Logger
	files  map[string][]Decl
	seeds  []string
	mu     sync.RWMutex
}

// New creates an empty [Index].
func New(opts ...Option) *Index {
	x := &Index{
		files: map[string][]Decl{},
		seeds: DefaultSeeds,
	}

	for _, opt := range opts {
		opt(x)
	}

	if x.logger == nil {
		x.logger = slog.Default()
	}

	return x
}

// Update replaces the declarations recorded for path with those in text.
func (x *Index) Update(path, text string) error {
	decls, err := Scan(text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.files[path] = decls

	return nil
}

// Remove forgets the declarations recorded for path.
func (x *Index) Remove(path string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	delete(x.files, path)
}

// Len returns the number of indexed files.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.files)
}

// Load reads and indexes paths concurrently, with at most jobs files in
// flight (values below 1 mean [runtime.NumCPU]). Unreadable files are
// logged and removed from the index.
func (x *Index) Load(ctx context.Context, paths []string, jobs int) error {
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for _, path := range paths {
		eg.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			text, err := tooltip.ReadSource(path, x.enc)
			if err != nil {
				x.logger.Warn("skipping unreadable source",
					slog.String("path", path),
					slog.Any("error", err),
				)
				x.Remove(path)

				return nil
			}

			return x.Update(path, text)
		})
	}

	err := eg.Wait()
	if err != nil {
		return fmt.Errorf("index sources: %w", err)
	}

	return nil
}

// Names returns the seeds, all indexed types deriving from them, and all
// indexed serializable types. Serializable is not inherited: a type deriving
// only from a serializable type is not included.
func (x *Index) Names() tooltip.NameSet {
	x.mu.RLock()

	var serializable []string

	bases := map[string][]string{}
	derived := map[string]struct{}{}

	for _, seed := range x.seeds {
		derived[seed] = struct{}{}
	}

	for _, decls := range x.files {
		for _, d := range decls {
			bases[d.Name] = append(bases[d.Name], d.Bases...)
			if d.Serializable {
				serializable = append(serializable, d.Name)
			}
		}
	}

	x.mu.RUnlock()

	for changed := true; changed; {
		changed = false

		for name, bs := range bases {
			if _, ok := derived[name]; ok {
				continue
			}

			if slices.ContainsFunc(bs, func(b string) bool {
				_, ok := derived[b]

				return ok
			}) {
				derived[name] = struct{}{}
				changed = true
			}
		}
	}

	names := slices.AppendSeq(serializable, maps.Keys(derived))

	return tooltip.NewNameSet(names...)
}
