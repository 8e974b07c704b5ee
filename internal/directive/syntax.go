package directive

import (
	"go/ast"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/seitarof/gen-derive/internal/diag"
)

const (
	// Prefix introduces a directive comment on a type, variant or field.
	Prefix = "//derive:"
	// FieldPrefix introduces a directive for the positional field of a
	// defined non-struct type. It is written on the type's doc comment.
	FieldPrefix = "//derive.field:"
)

// Line is the text of one directive comment after its prefix.
type Line struct {
	Text string
	Pos  token.Position
}

// Annotation is one raw `Trait`, `Trait="value"` or `Trait(key="value", ...)`
// item of a directive line.
type Annotation struct {
	Trait    string
	Value    string
	HasValue bool
	Args     []Arg
	Pos      token.Position
}

// Arg is one `key` or `key="value"` item inside an annotation's list.
type Arg struct {
	Key      string
	Value    string
	HasValue bool
	Pos      token.Position
}

// Lines extracts the directive lines of a comment group. Lines with
// FieldPrefix are returned separately.
func Lines(fset *token.FileSet, groups ...*ast.CommentGroup) (own, field []Line) {
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			switch {
			case strings.HasPrefix(c.Text, Prefix):
				own = append(own, lineAt(fset, c, len(Prefix)))
			case strings.HasPrefix(c.Text, FieldPrefix):
				field = append(field, lineAt(fset, c, len(FieldPrefix)))
			}
		}
	}
	return own, field
}

func lineAt(fset *token.FileSet, c *ast.Comment, skip int) Line {
	var pos token.Position
	if fset != nil {
		pos = fset.Position(c.Pos())
		pos = shift(pos, skip)
	}
	return Line{Text: c.Text[skip:], Pos: pos}
}

func shift(pos token.Position, n int) token.Position {
	if !pos.IsValid() {
		return pos
	}
	pos.Column += n
	pos.Offset += n
	return pos
}

type lexer struct {
	s    scanner.Scanner
	base token.Position
	file *token.File
	err  *diag.Error

	pos token.Pos
	tok token.Token
	lit string
}

func newLexer(text string, base token.Position) *lexer {
	lx := &lexer{base: base}
	fset := token.NewFileSet()
	lx.file = fset.AddFile("", -1, len(text))
	lx.s.Init(lx.file, []byte(text), func(pos token.Position, msg string) {
		if lx.err == nil {
			lx.err = diag.Errorf(diag.CodeSyntax, shift(base, pos.Offset), "invalid directive: %s", msg)
		}
	}, 0)
	lx.next()
	return lx
}

func (lx *lexer) next() {
	lx.pos, lx.tok, lx.lit = lx.s.Scan()
}

func (lx *lexer) position() token.Position {
	return shift(lx.base, lx.file.Offset(lx.pos))
}

func (lx *lexer) atEnd() bool {
	return lx.tok == token.EOF || (lx.tok == token.SEMICOLON && lx.lit == "\n")
}

func (lx *lexer) syntaxError(want string) *diag.Error {
	if lx.err != nil {
		return lx.err
	}
	got := lx.tok.String()
	if lx.lit != "" && lx.lit != "\n" {
		got = lx.lit
	}
	if lx.atEnd() {
		got = "end of directive"
	}
	return diag.Errorf(diag.CodeSyntax, lx.position(), "invalid directive: expected %s, found %s", want, got)
}

func (lx *lexer) str() (string, *diag.Error) {
	if lx.tok != token.STRING {
		return "", lx.syntaxError("string literal")
	}
	v, err := strconv.Unquote(lx.lit)
	if err != nil {
		return "", diag.Errorf(diag.CodeSyntax, lx.position(), "invalid directive: bad string %s", lx.lit)
	}
	lx.next()
	return v, nil
}

// ParseLine parses the annotations of one directive line. pos is the
// position of the first character of text.
func ParseLine(text string, pos token.Position) ([]Annotation, *diag.Error) {
	lx := newLexer(text, pos)
	var out []Annotation

	for {
		if lx.tok != token.IDENT {
			return nil, lx.syntaxError("trait name")
		}
		ann := Annotation{Trait: lx.lit, Pos: lx.position()}
		lx.next()

		switch lx.tok {
		case token.ASSIGN:
			lx.next()
			v, err := lx.str()
			if err != nil {
				return nil, err
			}
			ann.Value, ann.HasValue = v, true
		case token.LPAREN:
			lx.next()
			args, err := parseArgs(lx)
			if err != nil {
				return nil, err
			}
			ann.Args = args
		}
		out = append(out, ann)

		if lx.atEnd() {
			break
		}
		if lx.tok != token.COMMA {
			return nil, lx.syntaxError("',' or end of directive")
		}
		lx.next()
	}

	if lx.err != nil {
		return nil, lx.err
	}
	return out, nil
}

func parseArgs(lx *lexer) ([]Arg, *diag.Error) {
	var args []Arg
	for lx.tok != token.RPAREN {
		if lx.tok != token.IDENT {
			return nil, lx.syntaxError("directive key")
		}
		arg := Arg{Key: lx.lit, Pos: lx.position()}
		lx.next()
		if lx.tok == token.ASSIGN {
			lx.next()
			v, err := lx.str()
			if err != nil {
				return nil, err
			}
			arg.Value, arg.HasValue = v, true
		}
		args = append(args, arg)

		if lx.tok == token.COMMA {
			lx.next()
			continue
		}
		if lx.tok != token.RPAREN {
			return nil, lx.syntaxError("',' or ')'")
		}
	}
	lx.next()
	return args, nil
}
