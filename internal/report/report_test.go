package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cyderes/cbnlint/internal/diag"
	"github.com/cyderes/cbnlint/internal/report"
	"github.com/cyderes/cbnlint/internal/state"
	"github.com/cyderes/cbnlint/internal/udm"
)

func TestErrorsReportRendersEachDiagnostic(t *testing.T) {
	c := diag.NewCollector()
	c.AddError(1, "first")
	c.AddError(2, "second")

	r := report.ErrorsReport{Path: "cfg.cbn", Diagnostics: c.Errors()}
	assert.Equal(t, "[ERROR] cfg.cbn, line 1, first\n[ERROR] cfg.cbn, line 2, second", r.String())
}

func TestErrorsReportEmpty(t *testing.T) {
	r := report.ErrorsReport{Path: "cfg.cbn"}
	assert.Equal(t, "No errors.", r.String())
}

func TestStateReportListsBothPopulations(t *testing.T) {
	r := report.StateReport{Explicit: []string{"message"}, Implicit: []string{"src_ip"}}
	assert.Contains(t, r.String(), "Explicit fields (1):")
	assert.Contains(t, r.String(), "message")
	assert.Contains(t, r.String(), "Implicit fields (1):")
	assert.Contains(t, r.String(), "src_ip")
}

func TestStateReportRendersValueTable(t *testing.T) {
	r := report.StateReport{Values: []state.ValueEntry{
		{Path: "a.b", Sources: []string{"x"}},
	}}
	assert.Contains(t, r.String(), "Value table (1):")
	assert.Contains(t, r.String(), "a.b <- x")
}

func TestUDMReportEmpty(t *testing.T) {
	r := report.UDMReport{}
	assert.Equal(t, "No UDM fields written.", r.String())
}

func TestCompositeReportNumbersSections(t *testing.T) {
	c := report.CompositeReport{Sections: []report.Report{
		report.ErrorsReport{Path: "cfg.cbn"},
		report.UDMReport{Fields: []udm.Field{{Path: "a.b"}}},
	}}
	out := c.String()
	assert.Contains(t, out, "[1] No errors.")
	assert.Contains(t, out, "[2] UDM fields (1):")
}
