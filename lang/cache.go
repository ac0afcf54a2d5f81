package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
)

var (
	// globalCache stores parse results keyed by the xxh3 hash of the source.
	globalCache sync.Map

	// fills collapses concurrent parses of the same source.
	fills singleflight.Group
)

// entry is a cached parse result. The source is kept to detect hash
// collisions.
type entry struct {
	source string
	main   Main
	err    error
}

// ParseReader parses source text read from r.
//
// The reader is drained through an asynchronous read-ahead buffer. Options
// behave as for [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Main, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// cachedParse returns the cached result for source, parsing it once if
// needed.
func cachedParse(ctx context.Context, source string) (Main, error) {
	key := strconv.FormatUint(xxh3.HashString(source), 36)

	if v, ok := globalCache.Load(key); ok {
		if e, ok := v.(*entry); ok && e.source == source {
			return e.main, e.err
		}

		// Hash collision: parse without caching.
		return parse(ctx, source)
	}

	v, _, _ := fills.Do(key, func() (any, error) {
		main, err := parse(ctx, source)
		e := &entry{source: source, main: main, err: err}

		if prev, loaded := globalCache.LoadOrStore(key, e); loaded {
			if pe, ok := prev.(*entry); ok {
				return pe, nil
			}
		}

		return e, nil
	})

	e, ok := v.(*entry)
	if !ok || e.source != source {
		return parse(ctx, source)
	}

	return e.main, e.err
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Range(func(key, _ any) bool {
		globalCache.Delete(key)

		return true
	})
}

// CacheLen returns the number of cached parse results.
func CacheLen() int {
	n := 0

	globalCache.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
