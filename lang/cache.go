package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed function tables keyed by source hash.
// Function tables are never mutated after parsing, so entries are shared by
// every Program built from the same source.
var globalCache sync.Map

// entry holds the parse outcome of one source.
type entry struct {
	once sync.Once
	fns  []*Function
	err  error
}

// ParseReader parses input from an io.Reader and returns the Program.
// The parsed function table is cached by source content unless caching is
// disabled with [WithCache].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead so the source is fetched
	// concurrently with decoding.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	prog := new(Program)

	applyDefaults(prog)
	applyOptions(prog, opts...)

	prog.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	if !prog.cache {
		prog.logger.TraceContext(ctx, "cache bypass")

		return ParseString(ctx, string(data), opts...)
	}

	hash := xxh3.Hash(data)

	value, hit := globalCache.LoadOrStore(hash, new(entry))

	ent, ok := value.(*entry)
	if !ok {
		return ParseString(ctx, string(data), opts...)
	}

	prog.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit))

	ent.once.Do(func() {
		ent.fns, ent.err = parse(string(data))
		if ent.err != nil {
			ent.err = WrapError(ent.err).
				With(slog.Int("source_length", len(data)))
		}
	})

	if ent.err != nil {
		return nil, ent.err
	}

	// Each Program gets its own slice so a Session defining new functions
	// never alters the cached table.
	prog.Functions = append([]*Function(nil), ent.fns...)
	prog.buildIndex()

	return prog, nil
}

// ClearCache removes all cached function tables.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
