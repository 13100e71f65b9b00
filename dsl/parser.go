package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `0[xX][0-9A-Fa-f]+|\d+(?:\.\d+)?(?:mm|cm|in|pt)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Range", Pattern: `\.\.`},
		{Name: "Symbol", Pattern: `[;:,]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	jobParser = participle.MustBuild[Job](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Job is the root AST node of a batch manifest.
type Job struct {
	Pos     lexer.Position `parser:"" json:"-"`
	Version string         `parser:"Newline* 'job' @Ident"`
	Entries []*Entry       `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Entry is either a defaults block or a font entry.
type Entry struct {
	Defaults *DefaultsSection `parser:"  @@"`
	Font     *FontSection     `parser:"| @@"`
}

// Kind returns the human-readable entry type.
func (e *Entry) Kind() string {
	switch {
	case e == nil:
		return "unknown"
	case e.Defaults != nil:
		return "defaults"
	case e.Font != nil:
		return "font"
	default:
		return "unknown"
	}
}

// DefaultsSection 中的属性作用于所有 font 条目。
type DefaultsSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Block *Block         `parser:"'defaults' @@"`
}

// FontSection 描述一个待转换的字体文件。
type FontSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Path  StringLiteral  `parser:"'font' @String"`
	Block *Block         `parser:"@@"`
}

// Block is a delimited list of properties.
type Block struct {
	Properties []*Property `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Property uses colon syntax (key: value).
type Property struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value represents property values.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Range  *RangeValue    `parser:"| @@"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
}

// Text returns the textual form of a non-range value; a single number yields its raw text.
func (v *Value) Text() (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Color != nil:
		return *v.Color, true
	case v.Ident != nil:
		return *v.Ident, true
	case v.Range != nil && v.Range.End == nil:
		return v.Range.Start, true
	default:
		return "", false
	}
}

// RangeValue captures `N` or `N..M`.
type RangeValue struct {
	Start string  `parser:"@Number"`
	End   *string `parser:"( Range @Number )?"`
}

// Bounds returns the inclusive range; a single number yields start == end.
func (r *RangeValue) Bounds() (int, int, error) {
	start, err := parseNumber(r.Start)
	if err != nil {
		return 0, 0, err
	}
	if r.End == nil {
		return start, start, nil
	}
	end, err := parseNumber(*r.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseNumber(raw string) (int, error) {
	n, err := strconv.ParseInt(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("无效数字 %q: %w", raw, err)
	}
	return int(n), nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a manifest from an io.Reader.
func Parse(r io.Reader) (*Job, error) {
	return jobParser.Parse("", r)
}

// ParseNamed parses a manifest and records filename in error positions.
func ParseNamed(filename string, r io.Reader) (*Job, error) {
	return jobParser.Parse(filename, r)
}

// ParseString parses a manifest from a string.
func ParseString(input string) (*Job, error) {
	return jobParser.ParseString("", input)
}
