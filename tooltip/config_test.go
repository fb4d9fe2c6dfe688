package tooltip_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/tooltipgen/stringtest"
	"go.jacobcolvin.com/tooltipgen/tooltip"
)

func parseConfig(t *testing.T, args ...string) *tooltip.Config {
	t.Helper()

	cfg := tooltip.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))

	return cfg
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := parseConfig(t)

	assert.Equal(t, tooltip.NewlineNative, cfg.Newline)
	assert.Equal(t, "Tooltip", cfg.Attribute)
	assert.Equal(t, "UnityEngine", cfg.Namespace)
	assert.Equal(t, tooltip.DefaultPathFilter(), cfg.PathFilter())

	enc, err := cfg.TextEncoding()
	require.NoError(t, err)
	assert.Nil(t, enc)

	g, err := cfg.NewGenerator(tooltip.NewNameSet("MonoBehaviour"), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, tooltip.NativeNewline, g.Newline())
}

func TestConfigPatternFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := stringtest.JoinLF(
		"patterns:",
		"  - variants: [internal]",
		`    locate: '(?>^[ \t]*///[ \t]?(?<doc>[^\r\n]*)\r?\n)+(?<decl>(?<indent>^[ \t]*)<variant>\s+\S+\s+\S+;)'`,
		"names: [EnemySpawner]",
	)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := parseConfig(t, "--patterns", path, "--newline", "lf")

	g, err := cfg.NewGenerator(tooltip.NewNameSet("MonoBehaviour"), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.Equal(t, []string{"EnemySpawner", "MonoBehaviour"}, g.Names().Names())

	input := stringtest.Input(`
		class Wave : EnemySpawner {
		    /// Enemies per wave.
		    internal int count;
		    /// Ignored.
		    public int other;
		}
	`)
	want := stringtest.Input(`
		class Wave : EnemySpawner {
		    /// Enemies per wave.
		    [UnityEngine.Tooltip("Enemies per wave.")]
		    internal int count;
		    /// Ignored.
		    public int other;
		}
	`)

	got, changed, err := g.Process(input)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, want, got)
}

func TestConfigPatternFileStrict(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "patterns.toml")
	content := stringtest.JoinLF(
		"[[patterns]]",
		`variants = ["public"]`,
		`locate = '(?>^[ \t]*///[ \t]?(?<doc>[^\r\n]*)\r?\n)+(?<decl>(?<indent>^[ \t]*)<variant>\s+\S+\s+\S+;)'`,
		`extract = '<summary>(?<comment>.*?)</summary>'`,
	)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	input := stringtest.Input(`
		class Player : MonoBehaviour {
		    /// No summary.
		    public int lives;
		}
	`)

	tcs := map[string]struct {
		args    []string
		wantErr bool
	}{
		"permissive": {
			args: []string{"--patterns", path},
		},
		"strict flag applies to pattern file": {
			args:    []string{"--patterns", path, "--strict-extract"},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := parseConfig(t, append(tc.args, "--newline", "lf")...)

			g, err := cfg.NewGenerator(tooltip.NewNameSet("MonoBehaviour"), slog.New(slog.DiscardHandler))
			require.NoError(t, err)

			got, _, err := g.Process(input)
			if tc.wantErr {
				require.ErrorIs(t, err, tooltip.ErrExtract)
				assert.Equal(t, input, got)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	badPattern := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPattern, []byte(`{"patterns":[{"variants":["public"],"locate":"(?<doc>x)"}]}`), 0o644))

	tcs := map[string][]string{
		"bad newline":          {"--newline", "cr"},
		"missing pattern file": {"--patterns", filepath.Join(dir, "missing.yaml")},
		"invalid pattern":      {"--patterns", badPattern},
		"empty keyword":        {"--keyword", " "},
	}

	for name, args := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := parseConfig(t, args...)

			_, err := cfg.NewGenerator(tooltip.NameSet{}, slog.New(slog.DiscardHandler))
			require.Error(t, err)
		})
	}

	cfg := parseConfig(t, "--newline", "cr")

	_, err := cfg.NewGenerator(tooltip.NameSet{}, nil)
	require.ErrorIs(t, err, tooltip.ErrInvalidOption)

	cfg = parseConfig(t, "--encoding", "nope")

	_, err = cfg.TextEncoding()
	require.ErrorIs(t, err, tooltip.ErrInvalidOption)
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	cfg := tooltip.NewConfig()
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	fn, ok := cmd.GetFlagCompletionFunc("newline")
	require.True(t, ok)

	got, directive := fn(cmd, nil, "")
	assert.Equal(t, []string{"native", "lf", "crlf"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}
