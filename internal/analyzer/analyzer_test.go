package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/cbnlint/internal/analyzer"
	"github.com/cyderes/cbnlint/internal/diag"
	"github.com/cyderes/cbnlint/internal/parser"
	"github.com/cyderes/cbnlint/internal/source"
)

func analyze(t *testing.T, src string) (*analyzer.Analyzer, *diag.Collector) {
	t.Helper()
	file := source.NewFile("test.cbn", src)
	prog, err := parser.Parse(file)
	require.NoError(t, err)

	collector := diag.NewCollector()
	a := analyzer.New(collector)
	a.Analyze(prog)
	return a, collector
}

func messages(c *diag.Collector) []string {
	var msgs []string
	for _, d := range c.All() {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func TestMissingOnErrorInMutateCopy(t *testing.T) {
	_, c := analyze(t, `filter { mutate { copy => { "a" => "b" } } }`)
	require.Len(t, c.Errors(), 1)
	assert.Contains(t, c.Errors()[0].Message, "on_error")
	assert.Contains(t, c.Errors()[0].Message, "copy")
}

func TestGrokOverwriteGap(t *testing.T) {
	_, c := analyze(t, `filter {
		grok {
			match => { "message" => "%{IP:src_ip}" }
			overwrite => ["other"]
			on_error => "err"
		}
	}`)
	require.Len(t, c.Errors(), 1)
	assert.Contains(t, c.Errors()[0].Message, `"src_ip"`)
}

func TestConditionalOnUndeclaredField(t *testing.T) {
	_, c := analyze(t, `filter { if [nope] == "x" { drop { tag => "t" } } }`)
	require.Len(t, c.Errors(), 1)
	assert.Equal(t, "undeclared field 'nope' used in conditional predicate", c.Errors()[0].Message)
}

func TestImplicitFieldPromotionDemotion(t *testing.T) {
	a, c := analyze(t, `filter {
		if [message] == "x" {
			mutate {
				replace => { "e" => "v" }
				on_error => "er"
			}
		}
		if [e] == "v" {
			drop { tag => "t" }
		}
	}`)
	assert.False(t, a.State().ContainsExplicit("e"))
	assert.True(t, a.State().ContainsImplicit("e"))

	msgs := messages(c)
	found := false
	for _, m := range msgs {
		if m == "implicit field 'e' used in conditional predicate; not guaranteed to exist" {
			found = true
		}
	}
	assert.True(t, found, "expected an implicit-field predicate error, got: %v", msgs)
}

func TestRenameSemantics(t *testing.T) {
	a, c := analyze(t, `filter {
		mutate {
			rename => { "message" => "msg" }
			on_error => "err"
		}
	}`)
	assert.False(t, a.State().ContainsExplicit("message"))
	assert.False(t, a.State().ContainsExplicit("msg"))
	assert.True(t, a.State().ContainsImplicit("msg"))
	assert.Empty(t, c.Errors())
}

func TestDateWithoutSourceIsOK(t *testing.T) {
	_, c := analyze(t, `filter {
		date {
			match => ["ts", "ISO8601"]
			on_error => "err"
		}
	}`)
	assert.Empty(t, c.Errors())
}
