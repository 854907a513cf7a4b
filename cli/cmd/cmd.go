package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/flyux/lang"
	"github.com/ardnew/flyux/log"
	"github.com/ardnew/flyux/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

type searchPathKey struct{}

// WithSearchPath returns a new context.Context carrying the directories
// searched for source names not found relative to the working directory.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// sources reads the content of several source files in order, one newline
// between each. Stdin, if named, is read last.
type sources struct {
	files  []*os.File
	reader io.Reader
}

// openSources opens every named source, resolving each name with
// [resolveSource]. A file named more than once, through any path, is read
// once. Naming "-", or a path that refers to in itself, includes in.
func openSources(in io.Reader, dirs, names []string) (*sources, error) {
	var (
		s        sources
		useStdin bool
		seen     = make(map[fileKey]struct{})
	)

	inKey, inOK := readerKey(in)

	for _, name := range names {
		if name == stdinSource {
			useStdin = true

			continue
		}

		file, err := os.Open(resolveSource(dirs, name))
		if err != nil {
			s.Close()

			return nil, ErrReadSource.Wrap(err).With(slog.String("source", name))
		}

		if key, ok := readerKey(file); ok {
			_, dup := seen[key]

			if inOK && key == inKey {
				useStdin, dup = true, true
			}

			if dup {
				file.Close()

				continue
			}

			seen[key] = struct{}{}
		}

		s.files = append(s.files, file)
	}

	readers := make([]io.Reader, 0, 2*len(s.files)+1)

	for _, file := range s.files {
		readers = append(readers, file, strings.NewReader("\n"))
	}

	if useStdin {
		readers = append(readers, in)
	}

	s.reader = io.MultiReader(readers...)

	return &s, nil
}

// Read implements io.Reader.
func (s *sources) Read(p []byte) (int, error) { return s.reader.Read(p) }

// Close closes every opened file.
func (s *sources) Close() error {
	var errs []error

	for _, file := range s.files {
		errs = append(errs, file.Close())
	}

	s.files = nil

	return errors.Join(errs...)
}

// resolveSource returns the path of the script called name. A name that
// exists relative to the working directory is used as is; otherwise each
// of dirs is searched for name and then name with the script extension.
// If nothing matches, name is returned unchanged.
func resolveSource(dirs []string, name string) string {
	if name == stdinSource || exists(name) || filepath.IsAbs(name) {
		return name
	}

	for _, dir := range dirs {
		for _, candidate := range []string{name, name + pkg.ScriptExt} {
			if path := filepath.Join(dir, candidate); exists(path) {
				return path
			}
		}
	}

	return name
}

func exists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}

// readerKey returns the identity of r if it is an open file.
func readerKey(r io.Reader) (fileKey, bool) {
	file, ok := r.(*os.File)
	if !ok {
		return fileKey{}, false
	}

	info, err := file.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// readSources returns the concatenated content of the named sources.
func readSources(ctx context.Context, in io.Reader, names []string) (string, error) {
	src, err := openSources(in, searchPathFrom(ctx), names)
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", ErrReadSource.Wrap(err)
	}

	return string(data), nil
}

// unreadable reports err on stderr if it is a failure to read a source,
// which no command treats as fatal.
func unreadable(ctx context.Context, err error) bool {
	if !errors.Is(err, ErrReadSource) && !errors.Is(err, lang.ErrReadInput) {
		return false
	}

	log.DebugContext(ctx, "source not read", slog.Any("error", err))
	fmt.Fprintln(stderr(ctx), err)

	return true
}

// loadProgram parses the concatenated content of the named sources.
func loadProgram(
	ctx context.Context,
	in io.Reader,
	names []string,
	opts ...lang.Option,
) (*lang.Program, error) {
	src, err := openSources(in, searchPathFrom(ctx), names)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return lang.ParseReader(ctx, src, opts...)
}
