// Package parser implements the two-stage parser for the CBN filter
// configuration language: a hand-rolled structural scanner (scan.go,
// predicate.go) isolates the skeleton and each filter invocation's body,
// and a declarative participle grammar (optiongrammar.go, convert.go)
// parses each isolated body's option/value syntax.
package parser

import (
	"github.com/cyderes/cbnlint/internal/ast"
	"github.com/cyderes/cbnlint/internal/source"
)

// Parse recognizes the top-level filter { ... } construct in file and
// returns its typed AST, or a fatal SyntaxError on the first malformed
// construct. There is no error recovery.
func Parse(file *source.File) (*ast.Program, error) {
	return newScanner(file).Parse()
}
