// Package log builds [log/slog] handlers from CLI flags.
//
// Three output formats are supported: [FormatText] writes styled lines
// through [charm.land/log/v2], [FormatJSON] and [FormatLogfmt] use the
// standard library handlers. Levels are named [LevelError], [LevelWarn],
// [LevelInfo] and [LevelDebug].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
package log
