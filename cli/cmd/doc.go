// Package cmd implements the flyux subcommands.
//
// Each command reads one or more script sources, resolved against the
// working directory and then the script search path, and writes its
// result to the kong context's stdout.
package cmd

// HistoryIdentifier is the kong variable identifier containing the path to
// the REPL history file.
var HistoryIdentifier = "history"
