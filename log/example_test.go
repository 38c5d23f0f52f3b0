package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/gentmpl/log"
)

func Example_basic() {
	logger := log.Make(os.Stderr)
	logger.Warn("template not found", slog.String("path", "root.cpp"))
}

func Example_configuration() {
	logger := log.Make(os.Stderr,
		log.WithLevel(log.LevelTrace),
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Trace("lexed", slog.Int("tokens", 42))
}
