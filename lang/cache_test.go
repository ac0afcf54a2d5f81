package lang

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestParseString_CachesResults(t *testing.T) {
	ClearCache()

	source := "let cached = 1"

	m1, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}

	m2, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}

	if &m1[0] != &m2[0] {
		t.Error("expected the same cached statements")
	}

	ClearCache()

	m3, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}

	if &m1[0] == &m3[0] {
		t.Error("ClearCache should drop cached statements")
	}
}

func TestParseString_CachesErrors(t *testing.T) {
	ClearCache()

	_, err1 := ParseString(context.Background(), "let = 1")
	_, err2 := ParseString(context.Background(), "let = 1")

	if err1 == nil || err1 != err2 {
		t.Errorf("expected the same cached error, got %v and %v", err1, err2)
	}
}

func TestParseString_OptionsBypassCache(t *testing.T) {
	ClearCache()

	source := "let fresh = 2"

	m1, err := ParseString(context.Background(), source)
	if err != nil {
		t.Fatal(err)
	}

	m2, err := ParseString(context.Background(), source, WithMaxDepth(DefaultMaxDepth))
	if err != nil {
		t.Fatal(err)
	}

	if &m1[0] == &m2[0] {
		t.Error("a parse with options should not share the cached result")
	}
}

func TestParseString_WithoutCacheLeavesCacheEmpty(t *testing.T) {
	ClearCache()

	for _, src := range []string{"let a = 1", "let a = 1\nlet b = 2", "let = 1"} {
		_, _ = ParseString(context.Background(), src, WithoutCache())
	}

	if n := CacheLen(); n != 0 {
		t.Errorf("CacheLen() = %d after uncached parses, want 0", n)
	}

	if _, err := ParseString(context.Background(), "let a = 1"); err != nil {
		t.Fatal(err)
	}

	if n := CacheLen(); n != 1 {
		t.Errorf("CacheLen() = %d after one cached parse, want 1", n)
	}

	ClearCache()

	if n := CacheLen(); n != 0 {
		t.Errorf("CacheLen() = %d after ClearCache, want 0", n)
	}
}

func TestParseString_ConcurrentCallsShareResult(t *testing.T) {
	ClearCache()

	source := "let shared =\n  print 1\n  print 2"

	const workers = 16

	var (
		wg      sync.WaitGroup
		results [workers]*MainStatement
		errs    [workers]error
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			m, err := ParseString(context.Background(), source)
			errs[i] = err

			if err == nil {
				results[i] = &m[0]
			}
		}()
	}

	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}

		if results[i] != results[0] {
			t.Errorf("worker %d got a different result", i)
		}
	}
}

func TestParseReader(t *testing.T) {
	main, err := ParseReader(context.Background(), strings.NewReader("module app\nlet x = 1"))
	if err != nil {
		t.Fatal(err)
	}

	if name, ok := main.ModuleName(); !ok || name != "app" {
		t.Errorf("ModuleName() = %q, %v", name, ok)
	}
}

func TestParseReader_ParseError(t *testing.T) {
	_, err := ParseReader(context.Background(), strings.NewReader("let x = (1"))
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(context.Background(), errReader{})

	if !errors.Is(err, ErrReadInput) {
		t.Errorf("err = %v, want ErrReadInput", err)
	}

	if !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("err = %v, want it to wrap the read error", err)
	}
}
