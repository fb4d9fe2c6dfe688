package tooltip

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Sentinel errors for file processing.
var (
	ErrReadInput   = errors.New("read input")
	ErrWriteOutput = errors.New("write output")
)

// LookupEncoding returns the text encoding registered under name, using the
// WHATWG names understood by [htmlindex.Get] ("windows-1252", "utf-16le",
// "shift_jis", ...).
//
// An empty name and UTF-8 return a nil [encoding.Encoding], which means the
// bytes are used as they are. This keeps byte order marks and never rewrites
// bytes outside the edited regions.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil //nolint:nilnil // nil encoding means raw UTF-8.
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding %q: %w", ErrInvalidOption, name, err)
	}

	return enc, nil
}

// ReadSource reads the file at path and decodes it with enc. A nil enc reads
// the file as UTF-8.
func ReadSource(path string, enc encoding.Encoding) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Source paths come from the caller.
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	if enc == nil {
		return string(data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %w", ErrReadInput, path, err)
	}

	return string(decoded), nil
}

// WriteSource encodes text with enc and writes it to path. An existing
// file keeps its permissions.
func WriteSource(path, text string, enc encoding.Encoding) error {
	data := []byte(text)

	if enc != nil {
		encoded, err := enc.NewEncoder().Bytes(data)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrWriteOutput, path, err)
		}

		data = encoded
	}

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	err := os.WriteFile(path, data, perm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}

// ProcessFile rewrites the file at path in place. See
// [Generator.ProcessFileTo].
func (g *Generator) ProcessFile(path string, enc encoding.Encoding) (bool, error) {
	return g.ProcessFileTo(path, path, enc)
}

// ProcessFileTo processes the file at in and, when annotations changed,
// writes the result to out. It reports whether out was written.
//
// A file that cannot be read, or an output that cannot be written because
// access is denied, is logged and reported as not updated with a nil error.
// Other write failures and processing errors are returned.
func (g *Generator) ProcessFileTo(in, out string, enc encoding.Encoding) (bool, error) {
	text, err := ReadSource(in, enc)
	if err != nil {
		g.logger.Warn("skipping unreadable source",
			slog.String("path", in),
			slog.Any("error", err),
		)

		return false, nil
	}

	result, changed, err := g.Process(text)
	if err != nil {
		return false, fmt.Errorf("%s: %w", in, err)
	}

	if !changed {
		return false, nil
	}

	err = WriteSource(out, result, enc)
	if errors.Is(err, fs.ErrPermission) {
		g.logger.Warn("source not writable",
			slog.String("path", out),
			slog.Any("error", err),
		)

		return false, nil
	}

	if err != nil {
		return false, err
	}

	g.logger.Info("annotations updated", slog.String("path", out))

	return true, nil
}
