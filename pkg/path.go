package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// DirMode is the permission mode of directories created by [MkdirAll].
const DirMode os.FileMode = 0o700

// Prefix returns the base name of the running executable, used to name the
// configuration and cache directories.
//
// A debugger build ("__debug_bin1234") is named [Name], and leading dots are
// removed.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe := os.Args[0]
	if path, err := os.Executable(); err == nil {
		exe = path
	}

	base := filepath.Base(exe)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if debugBin.MatchString(base) {
		return Name
	}

	if base = strings.TrimLeft(base, "."); base == "" {
		return Name
	}

	return base
})

var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

// EnvVar returns the name of the environment variable for key, such as
// FLYUX_PATH for "path". It does not depend on the executable name.
func EnvVar(key string) string {
	return strings.ToUpper(Name + "_" + key)
}

// ConfigDir returns the directory holding configuration files.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory holding transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir returns the Prefix subdirectory of the directory reported by
// lookup, falling back to a hidden directory in the user's home and then
// to the working directory.
func userDir(lookup func() (string, error), hidden string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigPath joins elem to the configuration directory.
func ConfigPath(elem ...string) string {
	return filepath.Join(append([]string{ConfigDir()}, elem...)...)
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return err
		}
	}

	return nil
}
