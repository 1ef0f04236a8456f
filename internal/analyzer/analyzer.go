// Package analyzer implements the semantic analyzer: a single depth-first
// traversal of the AST that dispatches on node variant, mutating an
// internal/state.State instance while appending diagnostics.
package analyzer

import (
	"github.com/cyderes/cbnlint/internal/ast"
	"github.com/cyderes/cbnlint/internal/diag"
	"github.com/cyderes/cbnlint/internal/state"
)

// Analyzer walks a Program, maintaining the symbol-state table and
// appending diagnostics to a shared Collector. The analyzer owns the
// state exclusively; nothing else mutates it during a run.
type Analyzer struct {
	state *state.State
	diag  *diag.Collector

	mutateSourceFields map[string]bool
}

// New creates an Analyzer whose diagnostics are appended to collector.
func New(collector *diag.Collector) *Analyzer {
	return &Analyzer{
		state:              state.New(collector),
		diag:               collector,
		mutateSourceFields: make(map[string]bool),
	}
}

// State exposes the final symbol-state table, for -s/--print_state and
// UDM extraction.
func (a *Analyzer) State() *state.State { return a.state }

// MutateSourceFields returns, in no particular order, every source field
// referenced by a mutate subfunction during analysis — what the
// configuration reads from, for callers that want to generate field
// initialization stubs or coverage reports.
func (a *Analyzer) MutateSourceFields() []string {
	names := make([]string, 0, len(a.mutateSourceFields))
	for n := range a.mutateSourceFields {
		names = append(names, n)
	}
	return names
}

// Analyze performs a single depth-first traversal in source order. It
// never returns an error: semantic findings are recorded via the
// diagnostic collector, and an internal invariant violation is caught and
// reported rather than allowed to propagate.
func (a *Analyzer) Analyze(prog *ast.Program) {
	a.traverseStmts(prog.Body)
}

func (a *Analyzer) traverseStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		a.traverseStmt(stmt)
	}
}

func (a *Analyzer) traverseStmt(stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			a.state.AddError(stmt.Position().Line, "internal error: %v", r)
		}
	}()

	switch n := stmt.(type) {
	case *ast.FilterInvocation:
		a.analyzeFilter(n)
	case *ast.Conditional:
		a.analyzeConditional(n)
	case *ast.Loop:
		a.analyzeLoop(n)
	default:
		a.state.AddError(stmt.Position().Line, "internal error: unrecognized statement node %T", n)
	}
}

// analyzeConditional validates every BracketPath referenced in each
// branch's predicate against the state, then traverses the branch body
// inside its own scope. Branches do not share scope and no
// union/intersection is computed across them: fields set only inside a
// branch come back out implicit.
func (a *Analyzer) analyzeConditional(c *ast.Conditional) {
	for _, branch := range c.Branches {
		if branch.Predicate != nil {
			a.checkPredicateRefs(branch.Predicate)
		}
		a.state.PushScope()
		a.traverseStmts(branch.Body)
		a.state.PopScope()
	}
}

func (a *Analyzer) checkPredicateRefs(pred *ast.Predicate) {
	for _, ref := range pred.BracketRefs {
		switch {
		case a.state.ContainsExplicit(ref.Path):
			// OK: guaranteed to exist.
		case a.state.ContainsImplicit(ref.Path):
			a.state.AddError(ref.Pos.Line, "implicit field '%s' used in conditional predicate; not guaranteed to exist", ref.Path)
		default:
			a.state.AddError(ref.Pos.Line, "undeclared field '%s' used in conditional predicate", ref.Path)
		}
	}
}

// analyzeLoop traverses the loop body without pushing a scope: this
// language does not give loop bodies their own field-visibility scope.
func (a *Analyzer) analyzeLoop(l *ast.Loop) {
	a.traverseStmts(l.Body)
}
