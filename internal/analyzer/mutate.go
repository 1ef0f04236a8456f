package analyzer

import "github.com/cyderes/cbnlint/internal/ast"

// checkMutate implements the ten mutate subfunctions. Unlike
// the other filter kinds, mutate has no single source/target pair: each
// subfunction option carries its own operand(s) and its own on_error
// requirement, so there is no applyCommon call here beyond on_error
// promotion, which every subfunction individually triggers as needed.
func (a *Analyzer) checkMutate(f *ast.FilterInvocation) {
	onErrorDeclared := false
	if onErr, ok := f.Option("on_error"); ok {
		onErrorDeclared = true
		name := fieldName(onErr.Value)
		a.state.AddExplicit(name)
		a.state.AddValueTable(name, "")
	}

	requireOnError := func(pos ast.Position, sub string) {
		if !onErrorDeclared {
			a.state.AddError(pos.Line, "mutate %s missing on_error", sub)
		}
	}

	// replace: dst becomes implicit; on_error required only if some pair's
	// source expression contains a %{...} substitution.
	if opt, ok := f.Option("replace"); ok {
		needsOnError := false
		for _, pair := range opt.Value.Hash {
			dst := pair.Key
			srcExpr := fieldName(pair.Value)
			a.state.AddImplicit(dst)
			a.state.AddValueTable(dst, srcExpr)
			refs := substitutionRefs(srcExpr)
			for _, ref := range refs {
				a.mutateSourceFields[ref] = true
			}
			if len(refs) > 0 {
				needsOnError = true
			}
		}
		if needsOnError {
			requireOnError(opt.Pos, "replace")
		}
	}

	// merge: dst becomes implicit; on_error always required.
	if opt, ok := f.Option("merge"); ok {
		for _, pair := range opt.Value.Hash {
			dst := pair.Key
			src := fieldName(pair.Value)
			a.mutateSourceFields[src] = true
			a.state.AddImplicit(dst)
			a.state.AddValueTable(dst, src)
		}
		requireOnError(opt.Pos, "merge")
	}

	// copy: dst becomes implicit; on_error always required.
	if opt, ok := f.Option("copy"); ok {
		for _, pair := range opt.Value.Hash {
			dst := pair.Key
			src := fieldName(pair.Value)
			a.mutateSourceFields[src] = true
			a.state.AddImplicit(dst)
			a.state.AddValueTable(dst, src)
		}
		requireOnError(opt.Pos, "copy")
	}

	// rename: src is renamed wherever it currently lives (preserving
	// subtree names), then dst is forced into implicit regardless —
	// add_implicit's disjointness enforcement demotes it even if the
	// rename just placed it in explicit. on_error required unless every
	// renamed pair's src was already explicit before the rename.
	if opt, ok := f.Option("rename"); ok {
		needsOnError := false
		for _, pair := range opt.Value.Hash {
			src := pair.Key
			dst := fieldName(pair.Value)
			a.mutateSourceFields[src] = true
			srcAlreadyExplicit := a.state.ContainsExplicit(src)
			a.state.RenameExplicit(src, dst)
			a.state.RenameImplicit(src, dst)
			a.state.AddImplicit(dst)
			a.state.AddValueTable(dst, src)
			if !srcAlreadyExplicit {
				needsOnError = true
			}
		}
		if needsOnError {
			requireOnError(opt.Pos, "rename")
		}
	}

	// convert, split: always require on_error; neither changes the
	// explicit/implicit sets, only the source-field bookkeeping.
	if opt, ok := f.Option("convert"); ok {
		for _, pair := range opt.Value.Hash {
			a.mutateSourceFields[pair.Key] = true
		}
		requireOnError(opt.Pos, "convert")
	}

	if opt, ok := f.Option("split"); ok {
		for _, pair := range opt.Value.Hash {
			a.mutateSourceFields[pair.Key] = true
		}
		requireOnError(opt.Pos, "split")
	}

	// gsub, lowercase, uppercase: operate on already-explicit fields; no
	// on_error requirement and no state-table mutation beyond bookkeeping
	// which source fields were read. A non-explicit operand may be absent
	// at runtime; these operations silently no-op on a missing field, so
	// that is a warning, not an error.
	if opt, ok := f.Option("gsub"); ok {
		// gsub's list is field/pattern/replacement triples; only every
		// third element names a field.
		items := valuesOf(opt.Value)
		for i := 0; i < len(items); i += 3 {
			a.touchExplicitOperand(fieldName(items[i]), "gsub", opt.Pos)
		}
	}
	if opt, ok := f.Option("lowercase"); ok {
		for _, v := range valuesOf(opt.Value) {
			a.touchExplicitOperand(fieldName(v), "lowercase", opt.Pos)
		}
	}
	if opt, ok := f.Option("uppercase"); ok {
		for _, v := range valuesOf(opt.Value) {
			a.touchExplicitOperand(fieldName(v), "uppercase", opt.Pos)
		}
	}

	// remove_field: removes listed names from both populations; removing
	// an absent field is a silent no-op.
	if opt, ok := f.Option("remove_field"); ok {
		for _, v := range valuesOf(opt.Value) {
			name := fieldName(v)
			a.state.RemoveExplicit(name)
			a.state.RemoveImplicit(name)
		}
	}
}
