package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/gentmpl/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The file is a flat mapping from flag names to values:
//
//	log-level: debug
//	log-format: json
//	log_pretty: false
//
// Keys may use hyphens or underscores. Command-line flags override config
// file values. An empty file configures nothing, and a file that is not a
// mapping is ignored with a warning so that a broken config never blocks
// the command line.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var m map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &m)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config, len(m))
		for k, v := range m {
			cfg[strings.ReplaceAll(k, "_", "-")] = flagValue(v)
		}

		return cfg, nil
	}
}

// flagValue converts numbers to strings, which kong parses for any flag
// type. Other values are passed through.
func flagValue(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return v
	}
}

// config implements [kong.Resolver] for flat YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
