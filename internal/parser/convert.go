package parser

import (
	"regexp"
	"strconv"

	"github.com/alecthomas/participle/v2"

	"github.com/cyderes/cbnlint/internal/ast"
	"github.com/cyderes/cbnlint/internal/source"
)

// unquote strips the surrounding quote characters the String lexer token
// captures verbatim.
func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// filterOptionSets is the closed per-filter-kind option-name set. An
// option name outside this set is a syntax error, even inside an
// otherwise valid filter block.
var filterOptionSets = map[string]map[string]bool{
	"grok":      set("match", "overwrite", "on_error"),
	"json":      set("source", "target", "on_error", "array_function"),
	"xml":       set("source", "target", "on_error", "xpath"),
	"kv":        set("source", "target", "on_error", "field_split", "unescape_field_split", "value_split", "unescape_value_split", "whitespace", "trim_value"),
	"csv":       set("source", "target", "on_error", "separator", "unescape_separator"),
	"base64":    set("source", "target", "on_error", "encoding"),
	"date":      set("match", "source", "target", "timezone", "rebase", "on_error"),
	"mutate":    set("convert", "gsub", "lowercase", "merge", "rename", "replace", "uppercase", "remove_field", "copy", "split", "on_error"),
	"drop":      set("tag"),
	"statedump": set("label"),
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var (
	numberRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// convertFilterInvocation parses bodyText (the isolated, brace-stripped
// text of one filter invocation) with the Stage B participle grammar and
// builds the typed ast.FilterInvocation, validating option names against
// the closed per-kind set and recording (but not erroring on) duplicates —
// detection happens at option-map construction, but reporting a duplicate
// as a semantic finding is the analyzer's job.
func convertFilterInvocation(kind string, kindPos source.Position, bodyBaseOffset int, bodyText string, file *source.File) (*ast.FilterInvocation, error) {
	parsed, err := optionParser.ParseString("", bodyText)
	if err != nil {
		return nil, translateParticipleError(err, bodyBaseOffset, file)
	}

	allowed := filterOptionSets[kind]
	fi := &ast.FilterInvocation{
		Kind:    kind,
		Options: make(map[string]*ast.Option, len(parsed.Options)),
		Pos:     toAstPos(kindPos),
	}

	for _, opt := range parsed.Options {
		pos := toAstPos(file.Position(bodyBaseOffset + opt.Pos.Offset))
		if !allowed[opt.Name] {
			return nil, SyntaxError{
				Kind:    "UnknownOption",
				Pos:     file.Position(bodyBaseOffset + opt.Pos.Offset),
				Message: "unknown option " + strconv.Quote(opt.Name) + " for filter kind " + strconv.Quote(kind),
			}
		}

		value := convertValue(opt.Value, bodyBaseOffset, file)
		option := &ast.Option{Name: opt.Name, Value: value, Pos: pos}

		if _, exists := fi.Options[opt.Name]; exists {
			fi.Duplicates = append(fi.Duplicates, ast.DuplicateOption{Name: opt.Name, Pos: pos})
			continue
		}
		fi.Options[opt.Name] = option
		fi.Order = append(fi.Order, opt.Name)
	}

	return fi, nil
}

// convertValue converts one Stage B ValueAST into the tagged-union
// ast.Value, classifying bare tokens into Number, Boolean, or Identifier
// by inspecting the matched text.
func convertValue(v *ValueAST, baseOffset int, file *source.File) ast.Value {
	pos := toAstPos(file.Position(baseOffset + v.Pos.Offset))

	switch {
	case v.Str != nil:
		return ast.Value{Kind: ast.StringVal, Str: unquote(*v.Str), Pos: pos}

	case v.List != nil:
		items := make([]ast.Value, 0, len(v.List.Items))
		for _, item := range v.List.Items {
			items = append(items, convertValue(item, baseOffset, file))
		}
		return ast.Value{Kind: ast.ListVal, List: items, Pos: pos}

	case v.Hash != nil:
		pairs := make([]ast.HashPair, 0, len(v.Hash.Pairs))
		for _, p := range v.Hash.Pairs {
			key := ""
			if p.Key != nil {
				key = unquote(*p.Key)
			} else if p.KeyID != nil {
				key = *p.KeyID
			}
			pairs = append(pairs, ast.HashPair{Key: key, Value: convertValue(p.Value, baseOffset, file)})
		}
		return ast.Value{Kind: ast.HashVal, Hash: pairs, Pos: pos}

	case v.Bare != nil:
		return classifyBare(*v.Bare, pos)
	}

	return ast.Value{Kind: ast.IdentifierVal, Pos: pos}
}

func classifyBare(token string, pos ast.Position) ast.Value {
	switch token {
	case "true":
		return ast.Value{Kind: ast.BooleanVal, Bool: true, Pos: pos}
	case "false":
		return ast.Value{Kind: ast.BooleanVal, Bool: false, Pos: pos}
	}
	if numberRe.MatchString(token) {
		n, err := strconv.ParseFloat(token, 64)
		if err == nil {
			return ast.Value{Kind: ast.NumberVal, Number: n, Str: token, Pos: pos}
		}
	}
	return ast.Value{Kind: ast.IdentifierVal, Str: token, Pos: pos}
}

// translateParticipleError wraps a participle parse failure as a
// SyntaxError with an absolute source position, since participle only
// knows the offset relative to the isolated filter-body substring.
func translateParticipleError(err error, baseOffset int, file *source.File) error {
	offset := 0
	if pe, ok := err.(participle.Error); ok {
		offset = pe.Position().Offset
	}
	return SyntaxError{
		Kind:    "MalformedFilterBody",
		Pos:     file.Position(baseOffset + offset),
		Message: err.Error(),
	}
}
