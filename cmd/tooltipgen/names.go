package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/tooltipgen/patternfile"
	"go.jacobcolvin.com/tooltipgen/tooltip"
)

func (a *app) newNamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names [flags] [file.cs|directory ...]",
		Short: "Print the type names eligible for tooltips",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.cfg.PathFilter().Collect(roots(args)...)
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

			names := a.eligible(index)

			if a.cfg.Patterns != "" {
				f, err := patternfile.Load(a.cfg.Patterns)
				if err != nil {
					return err
				}

				names = names.Union(tooltip.NewNameSet(f.Names...))
			}

			for _, name := range names.Names() {
				fmt.Fprintln(a.stdout, name)
			}

			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of pattern files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := patternfile.Schema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}

			out = append(out, '\n')

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}
