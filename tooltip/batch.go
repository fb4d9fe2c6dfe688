package tooltip

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
)

// FileResult reports the outcome for one file of a [Batch].
type FileResult struct {
	// Err holds a processing or write error. Unreadable files and denied
	// writes are not errors; they are reported as unchanged.
	Err  error
	Path string
	// Before and After hold the source text in dry runs only.
	Before string
	After  string
	// Changed reports whether annotations changed. Outside dry runs this
	// also means the file was written.
	Changed bool
}

// Batch processes many files with one [Generator]. Files are independent,
// so up to Jobs of them are processed concurrently.
type Batch struct {
	Generator *Generator
	Encoding  encoding.Encoding
	// Jobs bounds concurrency; values below 1 mean [runtime.NumCPU].
	Jobs int
	// DryRun computes results without writing files.
	DryRun bool
}

// Run processes paths and returns one result per path, in the same order.
// It only fails when ctx is canceled.
func (b *Batch) Run(ctx context.Context, paths []string) ([]FileResult, error) {
	jobs := b.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	results := make([]FileResult, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)

	for i, path := range paths {
		eg.Go(func() error {
			err := ctx.Err()
			if err != nil {
				return err
			}

			results[i] = b.processOne(path)

			return nil
		})
	}

	err := eg.Wait()
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (b *Batch) processOne(path string) FileResult {
	res := FileResult{Path: path}

	if !b.DryRun {
		res.Changed, res.Err = b.Generator.ProcessFile(path, b.Encoding)

		return res
	}

	text, err := ReadSource(path, b.Encoding)
	if err != nil {
		b.Generator.logger.Warn("skipping unreadable source",
			slog.String("path", path),
			slog.Any("error", err),
		)

		return res
	}

	after, changed, err := b.Generator.Process(text)
	if err != nil {
		res.Err = err

		return res
	}

	res.Before, res.After, res.Changed = text, after, changed

	return res
}
