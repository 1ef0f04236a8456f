package analyzer

import "github.com/cyderes/cbnlint/internal/ast"

// fieldName returns the raw text of a value that names a field: works for
// String, Identifier, and Number values alike, since convert.go records
// the matched source text in Str for all three kinds.
func fieldName(v ast.Value) string { return v.Str }

// valuesOf treats v uniformly as a list of values: a List value's items,
// or v itself as a single-element list. Several options (e.g. grok's
// overwrite) accept either a list or a bare string/identifier.
func valuesOf(v ast.Value) []ast.Value {
	if v.Kind == ast.ListVal {
		return v.List
	}
	return []ast.Value{v}
}

// touchExplicitOperand records name as a read source field and warns when
// it is not guaranteed to exist at this program point.
func (a *Analyzer) touchExplicitOperand(name, sub string, pos ast.Position) {
	a.mutateSourceFields[name] = true
	if a.state.ContainsExplicit(name) {
		return
	}
	if a.state.ContainsImplicit(name) {
		a.state.AddWarning(pos.Line, "mutate %s operates on implicit field '%s'; not guaranteed to exist", sub, name)
		return
	}
	a.state.AddWarning(pos.Line, "mutate %s operates on undeclared field '%s'", sub, name)
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = "\"" + n + "\""
	}
	return out
}
