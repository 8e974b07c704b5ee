package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/seitarof/gen-derive/internal/emit"
	"github.com/seitarof/gen-derive/internal/resolver"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// DefaultFilename is the name of the generated file in the package
// directory.
const DefaultFilename = "derive_gen.go"

// Generator renders trait implementations into one Go file.
type Generator interface {
	Generate(cfg Config, file File) error
}

// Config is the minimum config contract required by generator.
type Config interface {
	OutputFilename() string
}

// File is the content of one generated file.
type File struct {
	Package   string
	Fragments []emit.Fragment
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	tmpl      *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct{}

type streamWriter struct {
	w io.Writer
}

type templateData struct {
	Package   string
	Imports   []string
	Fragments []emit.Fragment
	Helpers   []resolver.Helper
}

// New creates a code generator.
func New(f Formatter, w FileWriter) Generator {
	tmpl := template.Must(template.New("").ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{formatter: f, writer: w, tmpl: tmpl}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a plain file writer.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

// NewStreamWriter creates a writer that prints the generated code to w
// instead of touching the file system.
func NewStreamWriter(w io.Writer) FileWriter {
	return &streamWriter{w: w}
}

func (g *generatorImpl) Generate(cfg Config, file File) error {
	if len(file.Fragments) == 0 {
		return fmt.Errorf("no fragments to generate")
	}

	data := buildTemplateData(file)
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "derive.go.tmpl", data); err != nil {
		return fmt.Errorf("template: %w", err)
	}

	formatted, err := g.formatter.Format(cfg.OutputFilename(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if err := g.writer.Write(cfg.OutputFilename(), formatted); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0o644)
}

func (w *streamWriter) Write(filename string, data []byte) error {
	if _, err := fmt.Fprintf(w.w, "// %s\n", filename); err != nil {
		return err
	}
	_, err := w.w.Write(data)
	return err
}

// stdImports are the packages generated code refers to by name.
var stdImports = []struct {
	name string
	path string
	re   *regexp.Regexp
}{
	{"cmp", "cmp", usePattern("cmp")},
	{"fmt", "fmt", usePattern("fmt")},
	{"maphash", "hash/maphash", usePattern("maphash")},
	{"maps", "maps", usePattern("maps")},
	{"math", "math", usePattern("math")},
	{"slices", "slices", usePattern("slices")},
	{"strings", "strings", usePattern("strings")},
}

func usePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(^|[^\w.])` + name + `\.`)
}

func buildTemplateData(file File) templateData {
	seen := map[string]bool{}
	var helpers []resolver.Helper
	for _, f := range file.Fragments {
		for _, h := range f.Helpers {
			if seen[h.Name] {
				continue
			}
			seen[h.Name] = true
			helpers = append(helpers, h)
		}
	}
	sort.Slice(helpers, func(i, j int) bool { return helpers[i].Name < helpers[j].Name })

	var code bytes.Buffer
	for _, f := range file.Fragments {
		code.WriteString(f.Code)
		code.WriteByte('\n')
	}
	for _, h := range helpers {
		code.WriteString(h.Code)
		code.WriteByte('\n')
	}

	importsList := make([]string, 0, len(stdImports))
	for _, imp := range stdImports {
		if imp.re.Match(code.Bytes()) {
			importsList = append(importsList, imp.path)
		}
	}
	sort.Strings(importsList)

	return templateData{
		Package:   file.Package,
		Imports:   importsList,
		Fragments: file.Fragments,
		Helpers:   helpers,
	}
}
