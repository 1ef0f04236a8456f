package analyzer

import (
	"fmt"
	"strings"

	"github.com/cyderes/cbnlint/internal/ast"
)

// analyzeFilter dispatches a filter invocation to its per-kind check,
// first reporting any duplicate option names the parser detected while
// building the option map (a duplicate is a semantic, non-fatal finding).
func (a *Analyzer) analyzeFilter(f *ast.FilterInvocation) {
	for _, dup := range f.Duplicates {
		a.state.AddError(dup.Pos.Line, "duplicate option %q inside %s filter", dup.Name, f.Kind)
	}

	switch f.Kind {
	case "grok":
		a.checkGrok(f)
	case "json":
		a.checkJSON(f)
	case "xml":
		a.checkXML(f)
	case "kv":
		a.checkKV(f)
	case "csv":
		a.checkCSV(f)
	case "base64":
		a.checkBase64(f)
	case "date":
		a.checkDate(f)
	case "mutate":
		a.checkMutate(f)
	case "drop":
		// drop: no state mutation, no on_error requirement.
	case "statedump":
		// statedump: no state mutation, no on_error requirement.
	default:
		a.state.AddError(f.Pos.Line, "internal error: unrecognized filter kind %q", f.Kind)
	}
}

// applyCommon implements the filter-invocation contract shared by every
// filter kind unless overridden: source-required check, target promotion,
// and on_error promotion/requirement.
func (a *Analyzer) applyCommon(f *ast.FilterInvocation, requiresSource, requiresOnError bool) {
	if requiresSource {
		if _, ok := f.Option("source"); !ok {
			a.state.AddError(f.Pos.Line, "%s missing source", f.Kind)
		}
	}

	if target, ok := f.Option("target"); ok {
		name := fieldName(target.Value)
		a.state.AddImplicit(name)
		a.state.AddValueTable(name, "")
	}

	if onErr, ok := f.Option("on_error"); ok {
		name := fieldName(onErr.Value)
		a.state.AddExplicit(name)
		a.state.AddValueTable(name, "")
	} else if requiresOnError {
		a.state.AddError(f.Pos.Line, "%s missing on_error", f.Kind)
	}
}

func (a *Analyzer) checkGrok(f *ast.FilterInvocation) {
	a.applyCommon(f, false, true)

	match, ok := f.Option("match")
	if !ok || match.Value.Kind != ast.HashVal {
		a.state.AddError(f.Pos.Line, "grok match is required and must be a hash")
		return
	}

	var extracted []string
	for _, pair := range match.Value.Hash {
		for _, v := range valuesOf(pair.Value) {
			extracted = append(extracted, extractGrokNames(fieldName(v))...)
		}
	}
	for _, name := range extracted {
		a.state.AddImplicit(name)
		a.state.AddValueTable(name, "")
	}

	overwriteSet := make(map[string]bool)
	if overwrite, ok := f.Option("overwrite"); ok {
		for _, v := range valuesOf(overwrite.Value) {
			overwriteSet[fieldName(v)] = true
		}
	}

	var missing []string
	for _, name := range extracted {
		if !overwriteSet[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		a.state.AddError(f.Pos.Line, "grok missing overwrite values: %s", strings.Join(quoteAll(missing), ", "))
	}
}

func (a *Analyzer) checkDate(f *ast.FilterInvocation) {
	a.applyCommon(f, false, true)

	match, ok := f.Option("match")
	if !ok || match.Value.Kind != ast.ListVal {
		a.state.AddError(f.Pos.Line, "date match is required and must be a list")
	}
}

func (a *Analyzer) checkCSV(f *ast.FilterInvocation) {
	for i := 1; i <= 100; i++ {
		name := fmt.Sprintf("column%d", i)
		a.state.AddImplicit(name)
		a.state.AddValueTable(name, "")
	}
	a.applyCommon(f, true, true)
}

func (a *Analyzer) checkJSON(f *ast.FilterInvocation) {
	a.applyCommon(f, true, true)
	if target, ok := f.Option("target"); ok {
		// Structural inference under target stays symbolic: record a
		// provenance sentinel rather than walk a schema.
		a.state.AddValueTable(fieldName(target.Value)+".<json:source>", "")
	}
}

func (a *Analyzer) checkXML(f *ast.FilterInvocation)    { a.applyCommon(f, true, true) }
func (a *Analyzer) checkKV(f *ast.FilterInvocation)     { a.applyCommon(f, true, true) }
func (a *Analyzer) checkBase64(f *ast.FilterInvocation) { a.applyCommon(f, true, true) }
