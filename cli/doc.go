// Package cli contains the command line interface for gentmpl.
//
// # Usage
//
//	gentmpl render -t root.cpp -m geo.yaml -o geo.hpp
//	gentmpl render -t root.cpp -m geo.yaml --set guard=GEO_H --watch
//	gentmpl check templates/*.cpp
//	gentmpl tokens root.cpp
//	gentmpl tree --yaml root.cpp
//	gentmpl init --log-level=debug
//
// # Configuration
//
// Flag defaults are read from a YAML file in the user configuration
// directory, e.g. ~/.config/gentmpl/config.yaml on Linux. The init command
// writes one from the current flag values. Command-line flags override it.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (rfc3339, datetime, kitchen,
//     none, or a Go time layout)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//		go build -tags pprof .
//
//	  - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//	    heap, mem, mutex, thread, trace)
//	  - --pprof-dir: Set profile output directory (default:
//	    ~/.cache/gentmpl/pprof)
package cli
