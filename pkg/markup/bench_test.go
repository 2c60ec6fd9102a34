package markup

import (
	"strings"
	"testing"
)

const benchFixture = `<!-- c --><div class="box"><p> Hello   world </p><pre> keep   this   </pre><script> const x = 1 + 2 </script></div>`

func benchmarkMinify(b *testing.B, input string, cfg *Config) {
	m := New(cfg)
	b.SetBytes(int64(len(input)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := m.Minify(input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMinify_Fixture(b *testing.B) {
	benchmarkMinify(b, benchFixture, nil)
}

func BenchmarkMinify_Large(b *testing.B) {
	benchmarkMinify(b, strings.Repeat(benchFixture+"\n", 2000), nil)
}

func BenchmarkMinify_LargeParallel(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Concurrency = 8
	benchmarkMinify(b, strings.Repeat(benchFixture+"\n", 2000), cfg)
}

func BenchmarkMinify_Aggressive(b *testing.B) {
	input := strings.Repeat(`<input type="checkbox" checked="checked" value="" disabled="disabled"> <span> a </span>`, 500)
	benchmarkMinify(b, input, PresetAggressive())
}

func BenchmarkSegment(b *testing.B) {
	input := strings.Repeat(benchFixture, 2000)
	tags := DefaultPreserveTags()
	b.SetBytes(int64(len(input)))
	for b.Loop() {
		Segment(input, tags)
	}
}
