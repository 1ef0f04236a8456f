package parser

import (
	"strings"

	"github.com/cyderes/cbnlint/internal/ast"
	"github.com/cyderes/cbnlint/internal/source"
)

// filterKinds is the closed set of filter invocation kinds.
var filterKinds = map[string]bool{
	"grok": true, "json": true, "xml": true, "kv": true, "csv": true,
	"mutate": true, "base64": true, "date": true, "drop": true, "statedump": true,
}

// scanner is the hand-rolled Stage A structural scanner. It recognizes the
// language's skeleton (filter { ... }, if/else if/else chains, for loops,
// and filter invocations) over raw source bytes, tracking byte-offset
// position itself rather than delegating to participle, since Stage A must
// selectively skip-scan predicate text that participle's single static
// grammar has no way to leave untokenized.
type scanner struct {
	file *source.File
	src  string
	pos  int
}

func newScanner(file *source.File) *scanner {
	return &scanner{file: file, src: file.Text}
}

// Parse recognizes the top-level "filter { ... }" construct and returns
// its body as a Program.
func (s *scanner) Parse() (*ast.Program, error) {
	s.skipSpaceAndComments()
	startPos := s.herePos()
	if err := s.expectKeyword("filter"); err != nil {
		return nil, err
	}
	if err := s.expectByte('{'); err != nil {
		return nil, err
	}
	body, err := s.parseBlockStatements('}')
	if err != nil {
		return nil, err
	}
	if err := s.expectByte('}'); err != nil {
		return nil, err
	}
	s.skipSpaceAndComments()
	if !s.atEnd() {
		return nil, syntaxErrorf(s.herePos(), "TrailingInput", "unexpected input after closing '}' of filter block")
	}
	return &ast.Program{Body: body, Pos: toAstPos(startPos)}, nil
}

func (s *scanner) atEnd() bool { return s.pos >= len(s.src) }

func (s *scanner) peekByte() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) herePos() source.Position { return s.file.Position(s.pos) }

func toAstPos(p source.Position) ast.Position {
	return ast.Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}

func isIdentChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_', b == '.', b == '-', b == '@':
		return true
	}
	return false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func (s *scanner) skipSpaceAndComments() {
	for !s.atEnd() {
		c := s.src[s.pos]
		if isSpace(c) {
			s.pos++
			continue
		}
		if c == '#' {
			for !s.atEnd() && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		}
		break
	}
}

// matchKeyword checks, at the current position (caller already skipped
// whitespace/comments), whether the literal word appears as a whole token
// (not a prefix of a longer bare identifier), consuming it on success.
func (s *scanner) matchKeyword(word string) bool {
	end := s.pos + len(word)
	if end > len(s.src) || s.src[s.pos:end] != word {
		return false
	}
	if end < len(s.src) && isIdentChar(s.src[end]) {
		return false
	}
	s.pos = end
	return true
}

// tryKeyword skips whitespace/comments, then attempts matchKeyword,
// restoring position on failure.
func (s *scanner) tryKeyword(word string) bool {
	save := s.pos
	s.skipSpaceAndComments()
	if s.matchKeyword(word) {
		return true
	}
	s.pos = save
	return false
}

func (s *scanner) expectKeyword(word string) error {
	s.skipSpaceAndComments()
	pos := s.herePos()
	if !s.matchKeyword(word) {
		return syntaxErrorf(pos, "ExpectedKeyword", "expected keyword %q", word)
	}
	return nil
}

func (s *scanner) expectByte(b byte) error {
	s.skipSpaceAndComments()
	pos := s.herePos()
	if s.atEnd() || s.src[s.pos] != b {
		return syntaxErrorf(pos, "ExpectedToken", "expected %q", string(b))
	}
	s.pos++
	return nil
}

// readBareOrQuoted reads either a quoted string (returning its unescaped
// content) or a bare identifier-charset token, as used for a filter kind
// name, which may optionally be quoted.
func (s *scanner) readBareOrQuoted() (string, source.Position, error) {
	s.skipSpaceAndComments()
	pos := s.herePos()
	if s.atEnd() {
		return "", pos, syntaxErrorf(pos, "UnexpectedEOF", "expected identifier")
	}
	if c := s.src[s.pos]; c == '"' || c == '\'' {
		val, err := s.readQuotedRaw(c)
		return val, pos, err
	}
	start := s.pos
	for !s.atEnd() && isIdentChar(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", pos, syntaxErrorf(pos, "UnexpectedToken", "expected identifier, found %q", string(s.peekByte()))
	}
	return s.src[start:s.pos], pos, nil
}

// readQuotedRaw consumes a quoted string starting at the current position
// (quote char already identified as quote) and returns its unescaped body.
func (s *scanner) readQuotedRaw(quote byte) (string, error) {
	startPos := s.herePos()
	s.pos++ // opening quote
	var b strings.Builder
	for {
		if s.atEnd() {
			return "", syntaxErrorf(startPos, "UnterminatedString", "unterminated string literal")
		}
		c := s.src[s.pos]
		if c == '\\' && s.pos+1 < len(s.src) {
			b.WriteByte(s.src[s.pos+1])
			s.pos += 2
			continue
		}
		if c == quote {
			s.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		s.pos++
	}
}

// parseBlockStatements parses statements until the closer byte is the next
// non-space, non-comment character (which it leaves unconsumed).
func (s *scanner) parseBlockStatements(closer byte) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		s.skipSpaceAndComments()
		if s.atEnd() {
			return nil, syntaxErrorf(s.herePos(), "UnexpectedEOF", "unexpected end of input, expected %q", string(closer))
		}
		if s.peekByte() == closer {
			return stmts, nil
		}
		stmt, err := s.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

func (s *scanner) parseStatement() (ast.Stmt, error) {
	s.skipSpaceAndComments()
	startPos := s.herePos()
	if s.matchKeyword("if") {
		return s.parseConditional(startPos)
	}
	if s.matchKeyword("for") {
		return s.parseLoop(startPos)
	}
	return s.parseFilterInvocation(startPos)
}

// parseConditional parses an if / (else if)* / else? chain. The "if"
// keyword has already been consumed; startPos is its position.
func (s *scanner) parseConditional(startPos source.Position) (*ast.Conditional, error) {
	branches := make([]*ast.Branch, 0, 1)

	branch, err := s.parseBranch(ast.If, startPos)
	if err != nil {
		return nil, err
	}
	branches = append(branches, branch)

	for {
		save := s.pos
		s.skipSpaceAndComments()
		elsePos := s.herePos()
		if !s.matchKeyword("else") {
			s.pos = save
			break
		}
		s.skipSpaceAndComments()
		if s.matchKeyword("if") {
			b, err := s.parseBranch(ast.ElseIf, elsePos)
			if err != nil {
				return nil, err
			}
			branches = append(branches, b)
			continue
		}
		if err := s.expectByte('{'); err != nil {
			return nil, err
		}
		body, err := s.parseBlockStatements('}')
		if err != nil {
			return nil, err
		}
		if err := s.expectByte('}'); err != nil {
			return nil, err
		}
		branches = append(branches, &ast.Branch{Kind: ast.Else, Body: body, Pos: toAstPos(elsePos)})
		break
	}

	return &ast.Conditional{Branches: branches, Pos: toAstPos(startPos)}, nil
}

// parseBranch parses "<predicate> { <body> }" for an if/else-if branch;
// kind's keyword has already been consumed.
func (s *scanner) parseBranch(kind ast.BranchKind, pos source.Position) (*ast.Branch, error) {
	pred, err := s.scanPredicate()
	if err != nil {
		return nil, err
	}
	if err := s.expectByte('{'); err != nil {
		return nil, err
	}
	body, err := s.parseBlockStatements('}')
	if err != nil {
		return nil, err
	}
	if err := s.expectByte('}'); err != nil {
		return nil, err
	}
	return &ast.Branch{Kind: kind, Predicate: pred, Body: body, Pos: toAstPos(pos)}, nil
}

// parseLoop parses "for optIdent, ident in (ident|list) { body }"; the
// "for" keyword has already been consumed.
func (s *scanner) parseLoop(startPos source.Position) (*ast.Loop, error) {
	first, _, err := s.readBareOrQuoted()
	if err != nil {
		return nil, err
	}

	var indexVar, valueVar string
	s.skipSpaceAndComments()
	if s.peekByte() == ',' {
		s.pos++
		second, _, err := s.readBareOrQuoted()
		if err != nil {
			return nil, err
		}
		indexVar, valueVar = first, second
	} else {
		valueVar = first
	}

	if err := s.expectKeyword("in"); err != nil {
		return nil, err
	}

	iterable, err := s.scanIterable()
	if err != nil {
		return nil, err
	}

	if err := s.expectByte('{'); err != nil {
		return nil, err
	}
	body, err := s.parseBlockStatements('}')
	if err != nil {
		return nil, err
	}
	if err := s.expectByte('}'); err != nil {
		return nil, err
	}

	return &ast.Loop{
		IndexVar: indexVar,
		ValueVar: valueVar,
		Iterable: iterable,
		Body:     body,
		Pos:      toAstPos(startPos),
	}, nil
}

// scanIterable reads either a bare/quoted identifier or a bracketed list
// literal, returning its raw source text; the loop iterable is not
// otherwise interpreted by the analyzer.
func (s *scanner) scanIterable() (string, error) {
	s.skipSpaceAndComments()
	if s.peekByte() == '[' {
		start := s.pos
		depth := 0
		for {
			if s.atEnd() {
				return "", syntaxErrorf(s.herePos(), "UnterminatedList", "unterminated list literal in for-loop iterable")
			}
			c := s.src[s.pos]
			switch c {
			case '"', '\'':
				if _, err := s.readQuotedRaw(c); err != nil {
					return "", err
				}
				continue
			case '[':
				depth++
			case ']':
				depth--
			}
			s.pos++
			if depth == 0 {
				return s.src[start:s.pos], nil
			}
		}
	}
	ident, _, err := s.readBareOrQuoted()
	return ident, err
}

// parseFilterInvocation parses "<kind> { options... }"; startPos is the
// position of the kind identifier.
func (s *scanner) parseFilterInvocation(startPos source.Position) (*ast.FilterInvocation, error) {
	kind, kindPos, err := s.readBareOrQuoted()
	if err != nil {
		return nil, err
	}
	if !filterKinds[kind] {
		return nil, syntaxErrorf(kindPos, "UnknownFilterKind", "unknown filter kind %q", kind)
	}

	if err := s.expectByte('{'); err != nil {
		return nil, err
	}
	bodyStart := s.pos
	if err := s.skipBalancedBody(); err != nil {
		return nil, err
	}
	bodyText := s.src[bodyStart : s.pos-1] // exclude the trailing '}' just consumed

	return convertFilterInvocation(kind, startPos, bodyStart, bodyText, s.file)
}

// skipBalancedBody advances past the filter invocation's body, stopping
// just after the matching closing '}'. Quoted strings and #-comments are
// honored so a brace inside either doesn't end the body early.
func (s *scanner) skipBalancedBody() error {
	startPos := s.herePos()
	depth := 1
	for {
		if s.atEnd() {
			return syntaxErrorf(startPos, "UnterminatedFilterBody", "unterminated filter invocation body")
		}
		c := s.src[s.pos]
		switch c {
		case '"', '\'':
			if _, err := s.readQuotedRaw(c); err != nil {
				return err
			}
			continue
		case '#':
			for !s.atEnd() && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		case '{':
			depth++
		case '}':
			depth--
		}
		s.pos++
		if depth == 0 {
			return nil
		}
	}
}
