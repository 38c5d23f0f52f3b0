package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/gentmpl/cli"
	"github.com/ardnew/gentmpl/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		// Errors implementing slog.LogValuer are logged with their attributes.
		log.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}
