package tooltip

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// VariantPlaceholder is replaced by each visibility variant in a locate
// pattern template.
const VariantPlaceholder = "<variant>"

// Named groups read from locate and extract patterns.
const (
	// GroupDoc captures one documentation line per repetition.
	GroupDoc = "doc"
	// GroupDecl spans the field declaration. Annotations are inserted at its
	// start.
	GroupDecl = "decl"
	// GroupIndent captures the declaration's leading whitespace.
	GroupIndent = "indent"
	// GroupAnnotation spans an existing annotation line, including its line
	// break. Optional.
	GroupAnnotation = "annotation"
	// GroupContent captures the content of an existing annotation. Optional.
	GroupContent = "content"
	// GroupComment is read from the extract pattern.
	GroupComment = "comment"
)

var (
	// ErrInvalidPattern indicates a pattern configuration that cannot be
	// compiled or lacks a required group.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrExtract indicates that a strict extract pattern did not match the
	// documentation of a field.
	ErrExtract = errors.New("extract documentation")
)

// Pattern describes one family of documented declarations: the visibility
// variants to try, the locate pattern, and an optional extract pattern that
// narrows the joined documentation down to the annotation content.
//
// Patterns are compiled by [NewPattern] and immutable afterwards, so one
// Pattern may be shared by concurrent [Generator.Process] calls.
type Pattern struct {
	extract  *regexp2.Regexp
	variants []variant
	strict   bool
}

type variant struct {
	re   *regexp2.Regexp
	name string
}

// PatternOption configures a [Pattern].
type PatternOption func(*Pattern)

// WithStrictExtract makes a non-matching extract pattern an [ErrExtract]
// error instead of producing empty content.
func WithStrictExtract(strict bool) PatternOption {
	return func(p *Pattern) {
		p.strict = strict
	}
}

// NewPattern compiles a [Pattern].
//
// The locate template must contain [VariantPlaceholder]; it is compiled once
// per variant, in order, with multiline semantics. Each compiled pattern must
// define the [GroupDoc], [GroupDecl] and [GroupIndent] groups. When extract
// is not empty it must define [GroupComment].
func NewPattern(variants []string, locate, extract string, opts ...PatternOption) (*Pattern, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: no variants", ErrInvalidPattern)
	}

	if !strings.Contains(locate, VariantPlaceholder) {
		return nil, fmt.Errorf("%w: locate pattern has no %s placeholder", ErrInvalidPattern, VariantPlaceholder)
	}

	p := &Pattern{}

	for _, opt := range opts {
		opt(p)
	}

	for _, name := range variants {
		if name == "" {
			return nil, fmt.Errorf("%w: empty variant", ErrInvalidPattern)
		}

		re, err := regexp2.Compile(strings.ReplaceAll(locate, VariantPlaceholder, name), regexp2.Multiline)
		if err != nil {
			return nil, fmt.Errorf("%w: variant %q: %w", ErrInvalidPattern, name, err)
		}

		for _, group := range []string{GroupDoc, GroupDecl, GroupIndent} {
			if re.GroupNumberFromName(group) < 0 {
				return nil, fmt.Errorf("%w: variant %q: missing group %q", ErrInvalidPattern, name, group)
			}
		}

		p.variants = append(p.variants, variant{name: name, re: re})
	}

	if extract != "" {
		re, err := regexp2.Compile(extract, regexp2.Multiline)
		if err != nil {
			return nil, fmt.Errorf("%w: extract: %w", ErrInvalidPattern, err)
		}

		if re.GroupNumberFromName(GroupComment) < 0 {
			return nil, fmt.Errorf("%w: extract: missing group %q", ErrInvalidPattern, GroupComment)
		}

		p.extract = re
	}

	return p, nil
}

// Variants returns the visibility variants in priority order.
func (p *Pattern) Variants() []string {
	names := make([]string, 0, len(p.variants))
	for _, v := range p.variants {
		names = append(names, v.name)
	}

	return names
}

// Content builds annotation content from documentation lines.
//
// Each line is passed through [Sanitize] and the lines are joined with the
// escaped form of newline (the two characters `\n` for LF), so a trailing
// backslash never absorbs the separator. When the pattern has an extract
// pattern, its [GroupComment] group is used; a non-match yields empty content
// unless the pattern is strict. The result is sanitized again, since the
// group may end inside an escape.
func (p *Pattern) Content(lines []string, newline string) (string, error) {
	sanitized := make([]string, len(lines))
	for i, line := range lines {
		sanitized[i] = Sanitize(line)
	}

	content := strings.Join(sanitized, EscapeNewline(newline))

	if p.extract != nil {
		m, err := p.extract.FindStringMatch(content)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtract, err)
		}

		switch {
		case m != nil:
			content = groupString(m, GroupComment)
		case p.strict:
			return "", fmt.Errorf("%w: no match in %q", ErrExtract, content)
		default:
			content = ""
		}
	}

	return Sanitize(content), nil
}

// EscapeNewline returns the string literal escape of a line break sequence,
// e.g. `\r\n` for CRLF.
func EscapeNewline(newline string) string {
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(newline)
}

// Attribute names the annotation attribute and the namespace it lives in.
type Attribute struct {
	Namespace string
	Name      string
}

// DefaultAttribute is Unity's TooltipAttribute.
var DefaultAttribute = Attribute{Namespace: "UnityEngine", Name: "Tooltip"}

// Import returns the using directive that makes the short attribute name
// available, or "" when the attribute has no namespace.
func (a Attribute) Import() string {
	if a.Namespace == "" {
		return ""
	}

	return "using " + a.Namespace + ";"
}

// Open returns the text that opens an annotation, up to and including the
// opening quote.
func (a Attribute) Open(short bool) string {
	if short || a.Namespace == "" {
		return "[" + a.Name + `("`
	}

	return "[" + a.Namespace + "." + a.Name + `("`
}

// closeToken ends every annotation.
const closeToken = `")]`

// DefaultVariants are the C# field spellings Unity serializes.
var DefaultVariants = []string{
	"public",
	`\[SerializeField\] private`,
}

// DefaultPatterns returns the built-in pattern for `///` XML documentation
// above serialized C# fields. The extract pattern takes the text of the
// <summary> element.
func DefaultPatterns(attr Attribute, newline string, opts ...PatternOption) ([]*Pattern, error) {
	p, err := NewPattern(slices.Clone(DefaultVariants), LocateTemplate(attr), SummaryExtract(newline), opts...)
	if err != nil {
		return nil, err
	}

	return []*Pattern{p}, nil
}

// LocateTemplate returns the locate pattern template for `///` documented
// fields annotated with attr.
//
// It matches one or more documentation lines, then any other attribute
// lines, an optional existing attr annotation, more attribute lines, and
// finally a field declaration spelled with [VariantPlaceholder].
func LocateTemplate(attr Attribute) string {
	token := regexp2.Escape(attr.Name)
	if attr.Namespace != "" {
		token = `(?:` + regexp2.Escape(attr.Namespace+".") + `)?` + token
	}

	others := `(?:^[ \t]*\[(?![ \t]*` + token + `)[^\]]+\]\s*(?=^))*`

	return `(?>^[ \t]*///[ \t]?(?>(?<doc>[^\r\n]*))\r?\n)+` +
		`\s*(?=^)` +
		others +
		`(?<annotation>^[ \t]*\[` + token + `\("(?<content>[^"]*)"\)\]\s*(?=^))?` +
		others +
		`(?<decl>(?<indent>^[ \t]*)` + VariantPlaceholder + `\s+[^\s;=]+\s+[^\s;=]+\s*(?>=[^;]+)?;)`
}

// SummaryExtract returns an extract pattern taking the text inside a
// <summary> element from documentation joined with the escaped newline.
func SummaryExtract(newline string) string {
	sep := regexp2.Escape(EscapeNewline(newline))

	return `\s*<summary>\s*(?:` + sep + `)?(?<comment>.*?(?=(?:` + sep + `)?\s*</summary\s*))`
}

func groupString(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil {
		return ""
	}

	return g.String()
}
