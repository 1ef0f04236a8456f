// Package cbnlint is the public entry point for linting CBN filter
// configuration files, wiring internal/parser and internal/analyzer
// together behind a small Lint/LintFile surface.
package cbnlint

import (
	"io"
	"os"

	"github.com/cyderes/cbnlint/internal/analyzer"
	"github.com/cyderes/cbnlint/internal/diag"
	"github.com/cyderes/cbnlint/internal/parser"
	"github.com/cyderes/cbnlint/internal/source"
	"github.com/cyderes/cbnlint/internal/state"
	"github.com/cyderes/cbnlint/internal/udm"
)

type (
	Diagnostic = diag.Diagnostic
	State      = state.State
	Field      = udm.Field
)

// Result is the outcome of linting one configuration file: the final
// symbol-state table and every diagnostic collected along the way. A nil
// State means the structural parse failed before analysis ever ran.
type Result struct {
	State       *State
	Diagnostics *diag.Collector
}

// Errors returns every error-severity diagnostic.
func (r Result) Errors() []Diagnostic { return r.Diagnostics.Errors() }

// Warnings returns every warning-severity diagnostic.
func (r Result) Warnings() []Diagnostic { return r.Diagnostics.Warnings() }

// ExitCode reports the process exit code: 0 when no error-severity
// diagnostic was recorded, 1 otherwise.
func (r Result) ExitCode() int { return r.Diagnostics.ExitCode() }

// UDMFields extracts the UDM fields the configuration writes. Returns nil
// if the parse failed (r.State is nil).
func (r Result) UDMFields() []Field {
	if r.State == nil {
		return nil
	}
	return udm.ExtractFields(r.State)
}

// Lint parses and semantically analyzes src (the text of one configuration
// file identified by path for diagnostic messages), returning a Result. A
// non-nil error indicates a fatal parse failure — analysis never runs in
// that case, and Result.State is nil.
func Lint(path, src string) (Result, error) {
	file := source.NewFile(path, src)

	prog, err := parser.Parse(file)
	if err != nil {
		return Result{}, err
	}

	collector := diag.NewCollector()
	a := analyzer.New(collector)
	a.Analyze(prog)

	return Result{State: a.State(), Diagnostics: collector}, nil
}

// LintReader reads all of r and lints it via Lint.
func LintReader(path string, r io.Reader) (Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Result{}, err
	}
	return Lint(path, string(b))
}

// LintFile reads and lints the configuration file at path.
func LintFile(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return Lint(path, string(b))
}
