package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version of flyux embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text, the default
	// configuration path and the script search path variable.
	Name = "flyux"

	// Description is a one-line summary used in help output.
	Description = "Interpreter for the FLYUX sigil scripting language"

	// ScriptExt is the conventional file extension of FLYUX scripts.
	ScriptExt = ".fx"
)

// AuthorInfo is an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary authors of the project.
//
//nolint:gochecknoglobals
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
