package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/tooltipgen/tooltip"
)

func (a *app) newApplyCmd() *cobra.Command {
	var (
		diffMode bool
		listMode bool
		color    string
	)

	cmd := &cobra.Command{
		Use:   "apply [flags] [file.cs|directory ...]",
		Short: "Add or refresh tooltips in place",
		Long: `apply rewrites every eligible source file under the given paths (default:
the current directory). With --diff or --list nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseColorMode(color)
			if err != nil {
				return err
			}

			return a.apply(cmd, roots(args), diffMode, listMode, colorEnabled(mode, a.stdout, os.Environ()))
		},
	}

	cmd.Flags().BoolVarP(&diffMode, "diff", "d", false, "diff mode: show changes without writing")
	cmd.Flags().BoolVarP(&listMode, "list", "l", false, "list mode: only list files that would change")
	cmd.Flags().StringVar(&color, "color", "auto", "colorize diff output, one of: auto, always, never")

	err := cmd.RegisterFlagCompletionFunc("color",
		cobra.FixedCompletions([]string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		fmt.Fprintf(a.stderr, "register completions: %v\n", err)
	}

	return cmd
}

func (a *app) apply(cmd *cobra.Command, paths []string, diffMode, listMode, color bool) error {
	files, err := a.cfg.PathFilter().Collect(paths...)
	if err != nil {
		return err
	}

	enc, err := a.cfg.TextEncoding()
	if err != nil {
		return err
	}

	index, err := a.newIndex(cmd, files, enc)
	if err != nil {
		return err
	}

	gen, err := a.cfg.NewGenerator(a.eligible(index), a.logger)
	if err != nil {
		return err
	}

	batch := &tooltip.Batch{
		Generator: gen,
		Encoding:  enc,
		Jobs:      a.cfg.Jobs,
		DryRun:    diffMode || listMode,
	}

	results, err := batch.Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	failed, updated := 0, 0

	for _, res := range results {
		if res.Err != nil {
			a.logger.Error("process source",
				slog.String("path", res.Path),
				slog.Any("error", res.Err),
			)

			failed++

			continue
		}

		if !res.Changed {
			continue
		}

		updated++

		switch {
		case listMode:
			fmt.Fprintln(a.stdout, res.Path)
		case diffMode:
			printDiff(a.stdout, res.Path, res.Before, res.After, color)
		}
	}

	a.logger.Debug("apply finished",
		slog.Int("files", len(files)),
		slog.Int("updated", updated),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFilesFailed, failed, len(files))
	}

	return nil
}
