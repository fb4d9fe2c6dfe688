package tooltip

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/dlclark/regexp2"
)

// ErrInvalidOption indicates an invalid [Generator] or [Config] setting.
var ErrInvalidOption = errors.New("invalid option")

// NativeNewline is the line terminator of the host platform.
var NativeNewline = nativeNewline()

func nativeNewline() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}

	return "\n"
}

// Generator attaches annotations derived from documentation comments to
// field declarations.
//
// A Generator holds only immutable configuration and is safe for concurrent
// use. Create instances with [NewGenerator]; use [Generator.WithNames] to
// swap the eligible container names.
type Generator struct {
	logger    *slog.Logger
	names     NameSet
	attribute Attribute
	keyword   string
	newline   string
	patterns  []*Pattern
	strict    bool
}

// Option configures a [Generator].
type Option func(*Generator)

// WithPatterns sets the pattern configurations, in priority order. Without
// this option the Generator uses [DefaultPatterns].
func WithPatterns(patterns ...*Pattern) Option {
	return func(g *Generator) {
		g.patterns = patterns
	}
}

// WithNewline sets the line terminator written after each annotation and
// used to escape line breaks inside annotation content. It must be "\n" or
// "\r\n". The default is [NativeNewline].
func WithNewline(newline string) Option {
	return func(g *Generator) {
		g.newline = newline
	}
}

// WithAttribute sets the annotation attribute. The default is
// [DefaultAttribute].
func WithAttribute(attr Attribute) Option {
	return func(g *Generator) {
		g.attribute = attr
	}
}

// WithKeyword sets the keyword that introduces a declaration container. The
// default is [DefaultKeyword].
func WithKeyword(keyword string) Option {
	return func(g *Generator) {
		g.keyword = keyword
	}
}

// WithStrict makes the default patterns fail with [ErrExtract] when the
// summary cannot be extracted. It has no effect together with
// [WithPatterns].
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a [Generator] for sources declaring containers named
// in names.
func NewGenerator(names NameSet, opts ...Option) (*Generator, error) {
	g := &Generator{
		names:     names,
		attribute: DefaultAttribute,
		keyword:   DefaultKeyword,
		newline:   NativeNewline,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = slog.Default()
	}

	if g.newline != "\n" && g.newline != "\r\n" {
		return nil, fmt.Errorf("%w: newline %q", ErrInvalidOption, g.newline)
	}

	if g.attribute.Name == "" {
		return nil, fmt.Errorf("%w: empty attribute name", ErrInvalidOption)
	}

	if strings.TrimSpace(g.keyword) == "" {
		return nil, fmt.Errorf("%w: empty keyword", ErrInvalidOption)
	}

	if len(g.patterns) == 0 {
		patterns, err := DefaultPatterns(g.attribute, g.newline, WithStrictExtract(g.strict))
		if err != nil {
			return nil, err
		}

		g.patterns = patterns
	}

	return g, nil
}

// WithNames returns a copy of g that uses names as the eligible container
// names. g is not modified.
func (g *Generator) WithNames(names NameSet) *Generator {
	clone := *g
	clone.names = names

	return &clone
}

// Names returns the eligible container names.
func (g *Generator) Names() NameSet {
	return g.names
}

// Newline returns the line terminator written after annotations.
func (g *Generator) Newline() string {
	return g.newline
}

// Process attaches or refreshes annotations in text.
//
// Text that declares no eligible container is returned unchanged. Otherwise
// every pattern and each of its variants is applied in order, each pass
// matching against the output of the previous one. A field whose existing
// annotation already carries the computed content is left alone.
//
// The boolean result reports whether the text changed. On error the original
// text is returned unchanged.
func (g *Generator) Process(text string) (string, bool, error) {
	if !g.names.Declared(text, g.keyword) {
		return text, false, nil
	}

	open := g.attribute.Open(g.attribute.Import() != "" && strings.Contains(text, g.attribute.Import()))

	out := text
	changed := false

	for _, p := range g.patterns {
		for _, v := range p.variants {
			var (
				passChanged bool
				err         error
			)

			out, passChanged, err = g.rewrite(out, p, v, open)
			if err != nil {
				return text, false, fmt.Errorf("variant %q: %w", v.name, err)
			}

			changed = changed || passChanged
		}
	}

	if !changed {
		return text, false, nil
	}

	return out, true, nil
}

// candidate holds what a rewrite needs from one match. Offsets are byte
// offsets into the text the match was found in.
type candidate struct {
	indent     string
	existing   string
	doc        []string
	declStart  int
	annotStart int
	annotLen   int
}

// rewrite runs one variant over text. All matches are found first; edits are
// then applied left to right, shifting each raw offset by the net length
// change of the edits before it. Bytes outside the edited regions are copied
// as is, including bytes that are not valid UTF-8.
func (g *Generator) rewrite(text string, p *Pattern, v variant, open string) (string, bool, error) {
	candidates, err := findCandidates(v.re, text)
	if err != nil {
		return "", false, err
	}

	var (
		buf     []byte
		delta   int
		changed bool
	)

	for _, c := range candidates {
		content, err := p.Content(c.doc, g.newline)
		if err != nil {
			return "", false, err
		}

		if content == c.existing {
			continue
		}

		if buf == nil {
			buf = []byte(text)
		}

		annotation := []byte(c.indent + open + content + closeToken + g.newline)

		if c.annotLen > 0 {
			buf = splice(buf, c.annotStart+delta, c.annotLen, nil)
			delta -= c.annotLen
		}

		buf = splice(buf, c.declStart+delta, 0, annotation)
		delta += len(annotation)
		changed = true

		g.logger.Debug("annotation written",
			slog.String("variant", v.name),
			slog.Int("offset", c.declStart+delta-len(annotation)),
			slog.Bool("replaced", c.annotLen > 0),
		)
	}

	if !changed {
		return text, false, nil
	}

	return string(buf), true, nil
}

// findCandidates matches re against the runes of text and copies everything
// needed out of each match, translating rune offsets to byte offsets. Group
// text is sliced from text itself so that invalid bytes are not replaced.
func findCandidates(re *regexp2.Regexp, text string) ([]candidate, error) {
	runes := []rune(text)
	offsets := runeOffsets(text, len(runes))

	span := func(index, length int) string {
		return text[offsets[index]:offsets[index+length]]
	}

	group := func(m *regexp2.Match, name string) string {
		g := m.GroupByName(name)
		if g == nil || len(g.Captures) == 0 {
			return ""
		}

		return span(g.Index, g.Length)
	}

	var candidates []candidate

	m, err := re.FindRunesMatch(runes)
	for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
		c := candidate{
			indent:    group(m, GroupIndent),
			existing:  group(m, GroupContent),
			declStart: offsets[m.GroupByName(GroupDecl).Index],
		}

		for _, capture := range m.GroupByName(GroupDoc).Captures {
			c.doc = append(c.doc, span(capture.Index, capture.Length))
		}

		if annot := m.GroupByName(GroupAnnotation); annot != nil && annot.Length > 0 {
			c.annotStart = offsets[annot.Index]
			c.annotLen = offsets[annot.Index+annot.Length] - c.annotStart
		}

		candidates = append(candidates, c)
	}

	if err != nil {
		return nil, err
	}

	return candidates, nil
}

// runeOffsets returns the byte offset of every rune in text, plus len(text).
// An invalid byte counts as one rune, as it does in a []rune conversion.
func runeOffsets(text string, n int) []int {
	offsets := make([]int, 0, n+1)
	for i := range text {
		offsets = append(offsets, i)
	}

	return append(offsets, len(text))
}

// splice returns a new slice with del bytes at at replaced by ins.
func splice(buf []byte, at, del int, ins []byte) []byte {
	out := make([]byte, 0, len(buf)-del+len(ins))
	out = append(out, buf[:at]...)
	out = append(out, ins...)

	return append(out, buf[at+del:]...)
}
