package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/cbnlint/internal/udm"
)

func TestJSONMissingSource(t *testing.T) {
	_, c := analyze(t, `filter { json { target => "parsed" on_error => "err" } }`)
	require.Len(t, c.Errors(), 1)
	assert.Contains(t, c.Errors()[0].Message, "json missing source")
}

func TestDateMatchMustBeAList(t *testing.T) {
	_, c := analyze(t, `filter { date { match => "ISO8601" on_error => "err" } }`)
	require.Len(t, c.Errors(), 1)
	assert.Contains(t, c.Errors()[0].Message, "must be a list")
}

func TestCSVSeedsColumnAliases(t *testing.T) {
	a, c := analyze(t, `filter { csv { source => "message" on_error => "err" } }`)
	assert.Empty(t, c.Errors())
	assert.True(t, a.State().ContainsImplicit("column1"))
	assert.True(t, a.State().ContainsImplicit("column100"))
	assert.False(t, a.State().ContainsImplicit("column101"))
}

func TestDuplicateOptionIsASemanticError(t *testing.T) {
	_, c := analyze(t, `filter { drop { tag => "a" tag => "b" } }`)
	require.Len(t, c.Errors(), 1)
	assert.Contains(t, c.Errors()[0].Message, `duplicate option "tag"`)
}

func TestGrokMatchListOfPatterns(t *testing.T) {
	a, c := analyze(t, `filter {
		grok {
			match => { "message" => ["%{IP:src_ip}", "(?P<user>[a-z]+)"] }
			overwrite => ["src_ip", "user"]
			on_error => "err"
		}
	}`)
	assert.Empty(t, c.Errors())
	assert.True(t, a.State().ContainsImplicit("src_ip"))
	assert.True(t, a.State().ContainsImplicit("user"))
}

func TestMutateReplaceWithoutSubstitutionNeedsNoOnError(t *testing.T) {
	_, c := analyze(t, `filter { mutate { replace => { "a" => "literal" } } }`)
	assert.Empty(t, c.Errors())
}

func TestMutateReplaceWithSubstitutionRequiresOnError(t *testing.T) {
	_, c := analyze(t, `filter { mutate { replace => { "a" => "%{message}" } } }`)
	require.Len(t, c.Errors(), 1)
	assert.Contains(t, c.Errors()[0].Message, "replace missing on_error")
}

func TestMutateGsubOnImplicitFieldWarns(t *testing.T) {
	_, c := analyze(t, `filter {
		mutate { replace => { "raw" => "v" } }
		mutate { gsub => ["raw", "\\s+", "_"] }
	}`)
	assert.Empty(t, c.Errors())
	require.Len(t, c.Warnings(), 1)
	assert.Contains(t, c.Warnings()[0].Message, "gsub")
	assert.Contains(t, c.Warnings()[0].Message, "'raw'")
}

func TestMutateLowercaseOnUndeclaredFieldWarns(t *testing.T) {
	_, c := analyze(t, `filter { mutate { lowercase => ["ghost"] } }`)
	assert.Empty(t, c.Errors())
	require.Len(t, c.Warnings(), 1)
	assert.Contains(t, c.Warnings()[0].Message, "undeclared field 'ghost'")
}

func TestMutateGsubOnExplicitFieldIsClean(t *testing.T) {
	_, c := analyze(t, `filter { mutate { gsub => ["message", "\\s+", "_"] } }`)
	assert.Empty(t, c.Errors())
	assert.Empty(t, c.Warnings())
}

func TestRemoveFieldClearsSubtree(t *testing.T) {
	a, _ := analyze(t, `filter {
		mutate { replace => { "tmp.a" => "1", "tmp.b" => "2" } }
		mutate { remove_field => ["tmp"] }
	}`)
	assert.False(t, a.State().ContainsImplicit("tmp"))
	assert.False(t, a.State().ContainsImplicit("tmp.a"))
	assert.False(t, a.State().ContainsImplicit("tmp.b"))
}

func TestMergeIntoOutputFeedsUDMExtraction(t *testing.T) {
	a, c := analyze(t, `filter {
		mutate {
			replace => { "event.idm.read_only_udm.principal.ip" => "%{src_ip}" }
			on_error => "err"
		}
		mutate {
			merge => { "@output" => "event" }
			on_error => "err2"
		}
	}`)
	assert.Empty(t, c.Errors())

	fields := udm.ExtractFields(a.State())
	require.Len(t, fields, 1)
	assert.Equal(t, "principal.ip", fields[0].Path)
	assert.Equal(t, []string{"%{src_ip}"}, fields[0].Sources)
}

func TestMutateSourceFieldsBookkeeping(t *testing.T) {
	a, _ := analyze(t, `filter {
		mutate {
			replace => { "a" => "%{message}" }
			on_error => "err"
		}
		mutate {
			copy => { "b" => "a" }
			on_error => "err2"
		}
	}`)
	assert.ElementsMatch(t, []string{"message", "a"}, a.MutateSourceFields())
}
