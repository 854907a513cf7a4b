// Package profile runs optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	flyux --pprof-mode cpu run script.fx
//	go tool pprof -http=: ~/.cache/flyux/pprof/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing, so
// callers need no build constraints of their own. A pprof build also
// registers the [net/http/pprof] handlers on the default mux.
package profile

// Tag is the build tag that enables profiling.
const Tag = "pprof"
