package udm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyderes/cbnlint/internal/diag"
	"github.com/cyderes/cbnlint/internal/state"
	"github.com/cyderes/cbnlint/internal/udm"
)

func TestExtractFieldsFollowsOutputEventList(t *testing.T) {
	st := state.New(diag.NewCollector())
	st.AddValueTable("event.idm.read_only_udm.principal.ip", "src_ip")
	st.AddValueTable("event.idm.read_only_udm.target.hostname", "")
	st.AddValueTable("@output", "event")

	fields := udm.ExtractFields(st)
	require.Len(t, fields, 2)
	assert.Equal(t, "principal.ip", fields[0].Path)
	assert.Equal(t, []string{"src_ip"}, fields[0].Sources)
	assert.Equal(t, "target.hostname", fields[1].Path)
	assert.Equal(t, []string{"<none>"}, fields[1].Sources)
}

func TestExtractFieldsMergesProvenanceAcrossEvents(t *testing.T) {
	st := state.New(diag.NewCollector())
	st.AddValueTable("ev1.idm.read_only_udm.principal.ip", "a")
	st.AddValueTable("ev2.idm.read_only_udm.principal.ip", "b")
	st.AddValueTable("@output", "ev1")
	st.AddValueTable("@output", "ev2")

	fields := udm.ExtractFields(st)
	require.Len(t, fields, 1)
	assert.Equal(t, "principal.ip", fields[0].Path)
	assert.Equal(t, []string{"a", "b"}, fields[0].Sources)
}

func TestExtractFieldsWalksDirectOutputSubtree(t *testing.T) {
	st := state.New(diag.NewCollector())
	st.AddValueTable("@output.idm.read_only_udm.metadata.event_type", "evtype")

	fields := udm.ExtractFields(st)
	require.Len(t, fields, 1)
	assert.Equal(t, "metadata.event_type", fields[0].Path)
	assert.Equal(t, []string{"evtype"}, fields[0].Sources)
}

func TestExtractFieldsEmptyWhenNothingWritten(t *testing.T) {
	st := state.New(diag.NewCollector())
	assert.Empty(t, udm.ExtractFields(st))
}

func TestFieldStringIncludesSources(t *testing.T) {
	f := udm.Field{Path: "a.b", Sources: []string{"x", "y"}}
	assert.Equal(t, "a.b (source: x, y)", f.String())
}
