package tooltip

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding"

	"go.jacobcolvin.com/tooltipgen/patternfile"
)

// Newline flag values.
const (
	NewlineNative = "native"
	NewlineLF     = "lf"
	NewlineCRLF   = "crlf"
)

// Flags holds CLI flag names for annotation configuration, allowing callers
// to customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Patterns   string
	Newline    string
	Attribute  string
	Namespace  string
	Keyword    string
	Strict     string
	Encoding   string
	Jobs       string
	Extensions string
	Exclude    string
}

// Config holds CLI flag values for annotation configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewGenerator] to create a [Generator].
type Config struct {
	Flags      Flags
	Patterns   string
	Newline    string
	Attribute  string
	Namespace  string
	Keyword    string
	Encoding   string
	Extensions []string
	Exclude    []string
	Jobs       int
	Strict     bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Patterns:   "patterns",
		Newline:    "newline",
		Attribute:  "attribute",
		Namespace:  "namespace",
		Keyword:    "keyword",
		Strict:     "strict-extract",
		Encoding:   "encoding",
		Jobs:       "jobs",
		Extensions: "ext",
		Exclude:    "exclude",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds annotation flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	def := DefaultPathFilter()

	flags.StringVarP(&c.Patterns, c.Flags.Patterns, "p", "",
		"pattern file (.yaml, .yml, .toml or .json); empty uses the built-in C# pattern")
	flags.StringVar(&c.Newline, c.Flags.Newline, NewlineNative,
		fmt.Sprintf("line break written after annotations, one of: %s, %s, %s", NewlineNative, NewlineLF, NewlineCRLF))
	flags.StringVar(&c.Attribute, c.Flags.Attribute, DefaultAttribute.Name,
		"annotation attribute name")
	flags.StringVar(&c.Namespace, c.Flags.Namespace, DefaultAttribute.Namespace,
		"namespace of the annotation attribute")
	flags.StringVar(&c.Keyword, c.Flags.Keyword, DefaultKeyword,
		"keyword introducing a declaration container")
	flags.BoolVar(&c.Strict, c.Flags.Strict, false,
		"fail when the summary cannot be extracted instead of writing nothing")
	flags.StringVar(&c.Encoding, c.Flags.Encoding, "utf-8",
		"source file encoding (WHATWG name, e.g. windows-1252, utf-16le)")
	flags.IntVarP(&c.Jobs, c.Flags.Jobs, "j", runtime.NumCPU(),
		"number of files processed concurrently")
	flags.StringSliceVar(&c.Extensions, c.Flags.Extensions, def.Extensions,
		"source file extensions to visit")
	flags.StringSliceVar(&c.Exclude, c.Flags.Exclude, def.Exclude,
		"path fragments to skip")
}

// RegisterCompletions registers shell completions for annotation flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Newline,
		cobra.FixedCompletions([]string{NewlineNative, NewlineLF, NewlineCRLF}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Newline, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Patterns,
		cobra.FixedCompletions([]string{"yaml", "yml", "toml", "json"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Patterns, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Encoding,
		cobra.FixedCompletions([]string{"utf-8", "utf-16le", "utf-16be", "windows-1252", "iso-8859-1", "shift_jis"},
			cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Encoding, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{c.Flags.Attribute, c.Flags.Namespace, c.Flags.Keyword, c.Flags.Jobs, c.Flags.Extensions, c.Flags.Exclude} {
		regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp)
		if regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}

// PathFilter returns the [PathFilter] described by c.
func (c *Config) PathFilter() PathFilter {
	return PathFilter{
		Extensions: slices.Clone(c.Extensions),
		Exclude:    slices.Clone(c.Exclude),
	}
}

// TextEncoding returns the source encoding described by c.
func (c *Config) TextEncoding() (encoding.Encoding, error) {
	return LookupEncoding(c.Encoding)
}

// NewGenerator creates a [Generator] using this [Config]. Names listed in
// the pattern file are added to names.
func (c *Config) NewGenerator(names NameSet, logger *slog.Logger) (*Generator, error) {
	newline, err := parseNewline(c.Newline)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithNewline(newline),
		WithStrict(c.Strict),
		WithLogger(logger),
	}

	if c.Attribute != "" {
		opts = append(opts, WithAttribute(Attribute{Namespace: c.Namespace, Name: c.Attribute}))
	}

	if c.Keyword != "" {
		opts = append(opts, WithKeyword(c.Keyword))
	}

	if c.Patterns != "" {
		f, err := patternfile.Load(c.Patterns)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
		}

		patterns, err := compilePatterns(f.Patterns, c.Strict)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Patterns, err)
		}

		if len(patterns) > 0 {
			opts = append(opts, WithPatterns(patterns...))
		}

		names = names.Union(NewNameSet(f.Names...))
	}

	return NewGenerator(names, opts...)
}

// compilePatterns compiles pattern file entries. A strict flag makes every
// entry strict; otherwise each entry's own setting applies.
func compilePatterns(specs []patternfile.Pattern, strict bool) ([]*Pattern, error) {
	patterns := make([]*Pattern, 0, len(specs))

	for i, spec := range specs {
		p, err := NewPattern(spec.Variants, spec.Locate, spec.Extract, WithStrictExtract(spec.Strict || strict))
		if err != nil {
			return nil, fmt.Errorf("patterns[%d]: %w", i, err)
		}

		patterns = append(patterns, p)
	}

	return patterns, nil
}

func parseNewline(s string) (string, error) {
	switch s {
	case "", NewlineNative:
		return NativeNewline, nil
	case NewlineLF:
		return "\n", nil
	case NewlineCRLF:
		return "\r\n", nil
	}

	return "", fmt.Errorf("%w: newline %q", ErrInvalidOption, s)
}
