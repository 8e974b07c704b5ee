package generator

import (
	"fmt"
	"testing"

	"github.com/seitarof/gen-derive/internal/directive"
	"github.com/seitarof/gen-derive/internal/emit"
	"github.com/seitarof/gen-derive/internal/resolver"
)

type passthroughFormatter struct{}

type discardWriter struct{}

func (passthroughFormatter) Format(_ string, src []byte) ([]byte, error) { return src, nil }

func (discardWriter) Write(_ string, _ []byte) error { return nil }

func BenchmarkGeneratorGenerate_TemplateOnly(b *testing.B) {
	g := New(passthroughFormatter{}, discardWriter{})
	cfg := testConfig{filename: "bench_gen.go"}
	file := benchmarkFile(8, 32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := g.Generate(cfg, file); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkFile(typeCount, fieldCount int) File {
	file := File{Package: "bench"}
	for i := 0; i < typeCount; i++ {
		code := fmt.Sprintf("func EqualType%d(x, y Type%d) bool {\nreturn true", i, i)
		for j := 0; j < fieldCount; j++ {
			code += fmt.Sprintf(" &&\nx.Field%d == y.Field%d", j, j)
		}
		code += "\n}"
		file.Fragments = append(file.Fragments, emit.Fragment{
			Type:    fmt.Sprintf("Type%d", i),
			Trait:   directive.PartialEq,
			Code:    code,
			Helpers: resolver.Helpers("deriveEqualPointer", "deriveCloneSlice"),
		})
	}
	return file
}
