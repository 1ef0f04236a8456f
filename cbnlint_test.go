package cbnlint_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/cbnlint"
	"github.com/cyderes/cbnlint/internal/parser"
)

const cleanConfig = `filter {
	grok {
		match => { "message" => "%{IP:src_ip}" }
		overwrite => ["src_ip"]
		on_error => "grok_failed"
	}
	if [grok_failed] == "false" {
		mutate {
			replace => { "event.idm.read_only_udm.principal.ip" => "%{src_ip}" }
			on_error => "replace_failed"
		}
	}
	mutate {
		merge => { "@output" => "event" }
		on_error => "merge_failed"
	}
}`

func TestLintCleanConfig(t *testing.T) {
	result, err := cbnlint.Lint("clean.conf", cleanConfig)
	require.NoError(t, err)
	assert.Empty(t, result.Errors())
	assert.Equal(t, 0, result.ExitCode())

	fields := result.UDMFields()
	require.Len(t, fields, 1)
	assert.Equal(t, "principal.ip", fields[0].Path)
}

func TestLintSemanticErrorSetsExitCode(t *testing.T) {
	result, err := cbnlint.Lint("bad.conf", `filter { mutate { copy => { "a" => "b" } } }`)
	require.NoError(t, err)
	require.Len(t, result.Errors(), 1)
	assert.Equal(t, 1, result.ExitCode())
}

func TestLintSyntaxErrorIsFatal(t *testing.T) {
	_, err := cbnlint.Lint("broken.conf", `filter { grok {`)
	require.Error(t, err)

	var synErr parser.SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.NotZero(t, synErr.Pos.Line)
}

func TestLintFileReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.conf")
	require.NoError(t, os.WriteFile(path, []byte(cleanConfig), 0o644))

	result, err := cbnlint.LintFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode())
}

func TestLintReader(t *testing.T) {
	result, err := cbnlint.LintReader("r.conf", strings.NewReader(cleanConfig))
	require.NoError(t, err)
	assert.Empty(t, result.Errors())
}
