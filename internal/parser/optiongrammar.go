package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// optionLexer tokenizes the body of a single filter invocation (the text
// between its outer braces, already isolated by scan.go).
//
// A bare token is not classified into number, boolean or identifier at
// the lexical level: the single Bare rule below matches the full
// identifier charset (digits included), and classification into
// Number/Boolean/Identifier happens in convert.go against the parsed
// string. The identifier charset overlaps both numeric and boolean
// literals, so the split has to happen after matching.
var optionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"|'([^'\\]|\\.)*'`},
	{Name: "Arrow", Pattern: `=>|=|:`},
	{Name: "Punct", Pattern: `[{}\[\],]`},
	{Name: "Bare", Pattern: `[A-Za-z0-9_.\-@]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// OptionsAST is the top-level production for a filter invocation's body:
// zero or more options, commas between them optional.
type OptionsAST struct {
	Options []*OptionAST `parser:"( @@ \",\"? )*"`
}

// OptionAST: <name> <arrow> <value>, e.g. source => "raw_message".
type OptionAST struct {
	Pos   lexer.Position
	Name  string    `parser:"@Bare"`
	Arrow string    `parser:"@Arrow"`
	Value *ValueAST `parser:"@@"`
}

// ValueAST is a typed value: string, list, hash, or a bare token whose
// kind (number/boolean/identifier) convert.go classifies after the fact.
type ValueAST struct {
	Pos  lexer.Position
	Str  *string  `parser:"  @String"`
	List *ListAST `parser:"| @@"`
	Hash *HashAST `parser:"| @@"`
	Bare *string  `parser:"| @Bare"`
}

// ListAST: "[" ( value | "," )* "]" — commas are optional separators and
// may appear consecutively, so empty positions are tolerated.
type ListAST struct {
	Pos   lexer.Position
	Items []*ValueAST `parser:"\"[\" ( @@ | \",\" )* \"]\""`
}

// HashAST: "{" ( pair ","? )+ "}" — one or more pairs, each followed by
// an optional comma.
type HashAST struct {
	Pos   lexer.Position
	Pairs []*HashPairAST `parser:"\"{\" ( @@ \",\"? )+ \"}\""`
}

// HashPairAST: (string|identifier) arrow value, optional trailing comma
// consumed by the enclosing HashAST production.
type HashPairAST struct {
	Pos   lexer.Position
	Key   *string   `parser:"( @String"`
	KeyID *string   `parser:"| @Bare )"`
	Arrow string    `parser:"@Arrow"`
	Value *ValueAST `parser:"@@"`
}

var optionParser = participle.MustBuild[OptionsAST](
	participle.Lexer(optionLexer),
	participle.Elide("Whitespace", "Comment"),
)
