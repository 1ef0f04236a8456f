package parser

import (
	"fmt"

	"github.com/cyderes/cbnlint/internal/source"
)

// SyntaxError is a fatal parse-time error: unexpected token, unterminated
// construct, unknown filter/option name at the grammar level. Pos carries
// the precise source location the CLI driver prints for a fatal parse
// failure.
type SyntaxError struct {
	Kind    string
	Pos     source.Position
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error (%s) at %s: %s", e.Kind, e.Pos, e.Message)
}

func syntaxErrorf(pos source.Position, kind, format string, args ...any) error {
	return SyntaxError{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
