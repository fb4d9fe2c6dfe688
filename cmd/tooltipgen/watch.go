package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding"

	"go.jacobcolvin.com/tooltipgen/tooltip"
	"go.jacobcolvin.com/tooltipgen/typeindex"
	"go.jacobcolvin.com/tooltipgen/watch"
)

func (a *app) newWatchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [flags] [directory ...]",
		Short: "Apply tooltips whenever sources change",
		Long: `watch applies the given directories once, then keeps watching them and
re-applies changed files after they settle. It runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd, roots(args), debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond,
		"how long a file must stay unchanged before it is processed")

	return cmd
}

func (a *app) watch(cmd *cobra.Command, dirs []string, debounce time.Duration) error {
	ctx := cmd.Context()

	files, err := a.cfg.PathFilter().Collect(dirs...)
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

	r := &refresher{app: a, index: index, gen: gen, enc: enc}
	r.process(ctx, files)

	w, err := watch.New(dirs, a.cfg.PathFilter(), r.handle,
		watch.WithDebounce(debounce),
		watch.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	defer w.Stop()

	err = w.Start(ctx)
	if err != nil {
		return err
	}

	<-ctx.Done()

	stats := w.Stats()
	a.logger.Info("stopped watching",
		slog.Int("events", stats.Events),
		slog.Int("batches", stats.Batches),
		slog.Int("errors", stats.Errors),
	)

	return nil
}

// refresher keeps the type index current and reapplies tooltips for each
// watch batch.
type refresher struct {
	app   *app
	index *typeindex.Index
	gen   *tooltip.Generator
	enc   encoding.Encoding
}

func (r *refresher) handle(ctx context.Context, b watch.Batch) {
	for _, path := range b.Removed {
		r.index.Remove(path)
	}

	err := r.index.Load(ctx, b.Changed, r.app.cfg.Jobs)
	if err != nil {
		r.app.logger.Error("index sources", slog.Any("error", err))

		return
	}

	r.gen = r.gen.WithNames(r.app.eligible(r.index))
	r.process(ctx, b.Changed)
}

func (r *refresher) process(ctx context.Context, files []string) {
	batch := &tooltip.Batch{Generator: r.gen, Encoding: r.enc, Jobs: r.app.cfg.Jobs}

	results, err := batch.Run(ctx, files)
	if err != nil {
		r.app.logger.Error("process sources", slog.Any("error", err))

		return
	}

	for _, res := range results {
		if res.Err != nil {
			r.app.logger.Error("process source",
				slog.String("path", res.Path),
				slog.Any("error", res.Err),
			)
		}
	}
}
