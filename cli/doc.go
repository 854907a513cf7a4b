// Package cli contains the command line interface for flyux.
//
// # Usage
//
// Running a script is the default command:
//
//	flyux script.fx
//	flyux run --print-result script.fx
//	flyux run --query 'result.total * 2' script.fx
//
// The other commands inspect a script without running it:
//
//	flyux tokens --format json script.fx
//	flyux ast script.fx
//	flyux check script.fx
//
// and start an interactive session, optionally loading a script's
// functions first:
//
//	flyux repl lib.fx
//
// # Script Search Path
//
// A script name that does not exist relative to the working directory is
// searched for in each directory given with -I, then in each directory of
// FLYUX_PATH, both with and without the .fx extension.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory. YAML mappings are flattened into hyphenated flag
// names, so
//
//	log:
//	  level: debug
//
// sets --log-level.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on a terminal
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o flyux .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/flyux/pprof)
package cli
