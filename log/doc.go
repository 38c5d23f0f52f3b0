// Package log is a thin layer over [log/slog] with typed attributes, a
// trace level below debug and optional colorized output.
//
// # Loggers
//
// [Make] builds a [Logger] from functional options. The zero [Logger]
// discards everything, so libraries can accept one by value and stay
// silent unless the caller opts in:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339"))
//
//	logger.Trace("lexed", slog.Int("tokens", 42))
//
// [Logger.Wrap] derives a logger with more options applied, and
// [Logger.With] one that adds attributes to every message.
//
// # Package Logger
//
// The package-level functions such as [Info] and [ErrorContext] write to a
// default logger on stderr. [Config] reconfigures it, which the command line
// does once its flags are parsed.
//
// # Levels and Formats
//
// Levels are [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn] and
// [LevelError]; [DefaultLevel] is warn. [ParseLevel] and [ParseFormat]
// accept the names listed by [Levels] and [Formats].
//
// Time layouts are Go layouts or the names of the [time] package layouts,
// case-insensitively ("rfc3339", "kitchen", "datetime"); "none" omits
// timestamps.
//
// # Pretty Output
//
// [WithPretty] replaces the slog text and JSON handlers with ones that
// style keys and levels through lipgloss. The styles are chosen for the
// output writer, so nothing is colored when it is not a terminal.
package log
