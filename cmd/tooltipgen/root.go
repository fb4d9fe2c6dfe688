package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"

	"go.jacobcolvin.com/tooltipgen/log"
	"go.jacobcolvin.com/tooltipgen/profile"
	"go.jacobcolvin.com/tooltipgen/tooltip"
	"go.jacobcolvin.com/tooltipgen/typeindex"
	"go.jacobcolvin.com/tooltipgen/version"
)

// errFilesFailed is returned when at least one file could not be processed.
var errFilesFailed = errors.New("some files failed")

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	logCfg  *log.Config
	profCfg *profile.Config
	session *profile.Session
	cfg     *tooltip.Config
	seeds   []string
	names   []string
	index   []string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:  stdout,
		stderr:  stderr,
		logCfg:  log.NewConfig(),
		profCfg: profile.NewConfig(),
		cfg:     tooltip.NewConfig(),
	}
}

// execute runs the command line args and stops profiling, if it was
// started, whatever the outcome.
func (a *app) execute(ctx context.Context, args []string) error {
	cmd := a.rootCmd()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)

	if a.session != nil {
		err = errors.Join(err, a.session.Stop())
	}

	return err
}

func (a *app) rootCmd() *cobra.Command {
	stdout, stderr := a.stdout, a.stderr

	rootCmd := &cobra.Command{
		Use:   "tooltipgen",
		Short: "Generate Unity tooltips from C# documentation comments",
		Long: `tooltipgen copies the summary of /// documentation comments into
[Tooltip("...")] attributes on public and serialized fields of MonoBehaviour,
ScriptableObject and serializable types.`,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := a.logCfg.NewLogger(a.stderr)
			if err != nil {
				return err
			}

			a.logger = logger
			a.session = a.profCfg.NewSession()

			return a.session.Start()
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	a.logCfg.RegisterFlags(flags)
	a.profCfg.RegisterFlags(flags)
	a.cfg.RegisterFlags(flags)
	flags.StringSliceVar(&a.seeds, "seed", typeindex.DefaultSeeds,
		"base types whose descendants are eligible")
	flags.StringSliceVar(&a.names, "name", nil,
		"additional eligible type names")
	flags.StringSliceVar(&a.index, "index", nil,
		"files or directories indexed for eligible types (default: the command arguments)")

	for _, register := range []func(*cobra.Command) error{
		a.logCfg.RegisterCompletions,
		a.cfg.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(stderr, "register completions: %v\n", err)
		}
	}

	rootCmd.AddCommand(
		a.newApplyCmd(),
		a.newWatchCmd(),
		a.newNamesCmd(),
		newSchemaCmd(),
	)

	return rootCmd
}

// roots returns args, or the current directory when args is empty.
func roots(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}

	return args
}

// newIndex indexes the --index paths, or paths when --index is unset.
func (a *app) newIndex(cmd *cobra.Command, paths []string, enc encoding.Encoding) (*typeindex.Index, error) {
	x := typeindex.New(
		typeindex.WithSeeds(a.seeds...),
		typeindex.WithEncoding(enc),
		typeindex.WithLogger(a.logger),
	)

	if len(a.index) > 0 {
		var err error

		paths, err = a.cfg.PathFilter().Collect(a.index...)
		if err != nil {
			return nil, err
		}
	}

	err := x.Load(cmd.Context(), paths, a.cfg.Jobs)
	if err != nil {
		return nil, err
	}

	return x, nil
}

// eligible returns the names found by x plus --name.
func (a *app) eligible(x *typeindex.Index) tooltip.NameSet {
	return x.Names().Union(tooltip.NewNameSet(a.names...))
}
