package parser

import (
	"regexp"
	"strings"

	"github.com/cyderes/cbnlint/internal/ast"
	"github.com/cyderes/cbnlint/internal/source"
)

// scanPredicate skips over a conditional predicate: rather than parse the
// full boolean-expression grammar, it raw-scans forward from the current
// position until it finds the '{'
// that opens the branch body, honoring quoted-string and regex-literal
// boundaries so that braces or brackets inside them don't terminate the
// scan early. The skipped text is kept as an opaque blob; BracketPath
// references are then extracted from it by a second, light regex pass
// (extractBracketRefs), which is the only semantic information the
// analyzer needs from a predicate.
func (s *scanner) scanPredicate() (*ast.Predicate, error) {
	s.skipSpaceAndComments()
	startPos := s.herePos()
	start := s.pos

	for {
		if s.atEnd() {
			return nil, syntaxErrorf(startPos, "UnterminatedPredicate", "unterminated conditional predicate (missing '{')")
		}
		c := s.src[s.pos]
		switch c {
		case '"', '\'':
			if _, err := s.readQuotedRaw(c); err != nil {
				return nil, err
			}
			continue
		case '/':
			s.skipPossibleRegex()
			continue
		case '#':
			for !s.atEnd() && s.src[s.pos] != '\n' {
				s.pos++
			}
			continue
		case '{':
			raw := s.src[start:s.pos]
			refs := extractBracketRefs(raw, start, s.file)
			return &ast.Predicate{Raw: strings.TrimSpace(raw), BracketRefs: refs, Pos: toAstPos(startPos)}, nil
		}
		s.pos++
	}
}

// skipPossibleRegex consumes a /.../ regex literal if the current '/' is
// followed, later on the same line, by an unescaped closing '/'; otherwise
// it treats the '/' as an ordinary character (e.g. a division operator)
// and advances past just that one byte.
func (s *scanner) skipPossibleRegex() {
	closeOffset := -1
	for i := s.pos + 1; i < len(s.src); i++ {
		c := s.src[i]
		if c == '\n' {
			break
		}
		if c == '\\' {
			i++
			continue
		}
		if c == '/' {
			closeOffset = i
			break
		}
	}
	if closeOffset == -1 {
		s.pos++
		return
	}
	s.pos = closeOffset + 1
}

// bracketGroupRe matches one [identifier] segment. The segment body is
// restricted to the identifier charset so bracketed list literals in a
// predicate (e.g. `in ["a", "b"]`) are not mistaken for field references.
var bracketGroupRe = regexp.MustCompile(`\[([A-Za-z0-9_.\-@]+)\]`)

// extractBracketRefs finds every run of one-or-more consecutive (optionally
// whitespace-separated) [identifier] groups in raw and joins each run's
// segments with "." into a single BracketRef, so [a][b][c] yields "a.b.c".
func extractBracketRefs(raw string, baseOffset int, file *source.File) []ast.BracketRef {
	var refs []ast.BracketRef
	matches := bracketGroupRe.FindAllStringSubmatchIndex(raw, -1)

	i := 0
	for i < len(matches) {
		groupStart := matches[i]
		segments := []string{raw[groupStart[2]:groupStart[3]]}
		runStart := groupStart[0]
		runEnd := groupStart[1]
		j := i + 1
		for j < len(matches) {
			next := matches[j]
			if strings.TrimSpace(raw[runEnd:next[0]]) != "" {
				break
			}
			segments = append(segments, raw[next[2]:next[3]])
			runEnd = next[1]
			j++
		}
		pos := file.Position(baseOffset + runStart)
		refs = append(refs, ast.BracketRef{
			Path: strings.Join(segments, "."),
			Pos:  toAstPos(pos),
		})
		i = j
	}
	return refs
}
