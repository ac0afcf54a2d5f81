package lang

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func benchmarkSource(n int) string {
	var b strings.Builder

	b.WriteString("module public bench.main\n\n")

	for i := range n {
		fmt.Fprintf(&b, "let inline f%d (a : int, b : int) : int =\n", i)
		b.WriteString("  let c = a * b\n")
		fmt.Fprintf(&b, "  print \"value\" (c, %d)\n", i)
		b.WriteString("  (c + a) << 2\n\n")
	}

	return b.String()
}

func BenchmarkParseString(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		src := benchmarkSource(n)

		b.Run(fmt.Sprintf("functions=%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			b.ReportAllocs()

			for b.Loop() {
				if _, err := parse(context.Background(), src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkParseString_Cached(b *testing.B) {
	ClearCache()

	src := benchmarkSource(100)
	if _, err := ParseString(context.Background(), src); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		if _, err := ParseString(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseString_NestedBrackets(b *testing.B) {
	src := "let x = " + strings.Repeat("(f ", 100) + "1" + strings.Repeat(")", 100)

	b.ReportAllocs()

	for b.Loop() {
		if _, err := parse(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}

func longLineSource(terms int) string {
	return "let a = " + strings.Repeat("x + ", terms) + "x\n"
}

func BenchmarkParseString_LongLine(b *testing.B) {
	for _, n := range []int{1000, 10000} {
		src := longLineSource(n)

		b.Run(fmt.Sprintf("terms=%d", n), func(b *testing.B) {
			b.SetBytes(int64(len(src)))
			b.ReportAllocs()

			for b.Loop() {
				if _, err := parse(context.Background(), src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// TestParseString_LongLineScalesLinearly parses a single-line chain at two
// sizes and checks the larger one does not take quadratically longer.
func TestParseString_LongLineScalesLinearly(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	fastest := func(src string) time.Duration {
		best := time.Duration(1<<63 - 1)

		for range 3 {
			start := time.Now()
			if _, err := parse(context.Background(), src); err != nil {
				t.Fatal(err)
			}

			best = min(best, time.Since(start))
		}

		return best
	}

	const small, factor = 5000, 4

	fastest(longLineSource(small)) // warm up

	base := fastest(longLineSource(small))
	large := fastest(longLineSource(small * factor))

	// Linear growth gives a ratio near factor; quadratic gives factor².
	if limit := base * factor * factor / 2; large > limit && large > 50*time.Millisecond {
		t.Errorf("parsing %d terms took %v, %d terms took %v; want near-linear growth",
			small, base, small*factor, large)
	}
}
