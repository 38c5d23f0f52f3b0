// Package profile starts optional runtime profiling for gentmpl using
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	./gentmpl --pprof-mode cpu --pprof-dir ./profiles render -t root.cpp -m ast.yaml
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
// The resulting files are read with "go tool pprof".
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
