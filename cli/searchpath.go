package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/flyux/pkg"
)

// searchPath returns the directories searched for script names that do not
// resolve relative to the working directory: each prefix, then each entry of
// the FLYUX_PATH environment variable. Directories that do not exist are
// dropped.
func searchPath(prefix ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(pkg.EnvVar("path"))),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
