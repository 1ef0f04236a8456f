// Package report renders analysis results for the CLI driver: a small
// Report interface with one concrete type per requested output (errors,
// warnings, state, UDM fields), plus a CompositeReport that concatenates
// whichever the caller asked for.
package report

import (
	"fmt"
	"strings"

	"github.com/cyderes/cbnlint/internal/diag"
	"github.com/cyderes/cbnlint/internal/state"
	"github.com/cyderes/cbnlint/internal/udm"
)

// Report renders one section of lint output.
type Report interface {
	String() string
}

// ErrorsReport renders every error-severity diagnostic, one per line, in
// the "[ERROR] <path>, line <N>, <message>" format.
type ErrorsReport struct {
	Path        string
	Diagnostics []diag.Diagnostic
}

func (r ErrorsReport) String() string {
	if len(r.Diagnostics) == 0 {
		return "No errors."
	}
	var b strings.Builder
	for i, d := range r.Diagnostics {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.String(r.Path))
	}
	return b.String()
}

// WarningsReport renders every warning-severity diagnostic.
type WarningsReport struct {
	Path        string
	Diagnostics []diag.Diagnostic
}

func (r WarningsReport) String() string {
	if len(r.Diagnostics) == 0 {
		return "No warnings."
	}
	var b strings.Builder
	for i, d := range r.Diagnostics {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.String(r.Path))
	}
	return b.String()
}

// StateReport renders the final value table (sorted by name) plus the
// explicit/implicit field-name populations, for -s/--print_state.
type StateReport struct {
	Explicit []string
	Implicit []string
	Values   []state.ValueEntry
}

func (r StateReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Value table (%d):", len(r.Values))
	for _, v := range r.Values {
		if len(v.Sources) > 0 {
			fmt.Fprintf(&b, "\n  %s <- %s", v.Path, strings.Join(v.Sources, ", "))
		} else {
			fmt.Fprintf(&b, "\n  %s", v.Path)
		}
	}
	fmt.Fprintf(&b, "\nExplicit fields (%d):", len(r.Explicit))
	for _, name := range r.Explicit {
		fmt.Fprintf(&b, "\n  %s", name)
	}
	fmt.Fprintf(&b, "\nImplicit fields (%d):", len(r.Implicit))
	for _, name := range r.Implicit {
		fmt.Fprintf(&b, "\n  %s", name)
	}
	return b.String()
}

// UDMReport renders the extracted UDM fields, for -u/--udm.
type UDMReport struct {
	Fields []udm.Field
}

func (r UDMReport) String() string {
	if len(r.Fields) == 0 {
		return "No UDM fields written."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "UDM fields (%d):", len(r.Fields))
	for _, f := range r.Fields {
		fmt.Fprintf(&b, "\n  %s", f.String())
	}
	return b.String()
}

// CompositeReport concatenates whichever sub-reports the CLI flags
// requested, numbering each section.
type CompositeReport struct {
	Sections []Report
}

func (r CompositeReport) String() string {
	if len(r.Sections) == 0 {
		return "No output requested."
	}
	var b strings.Builder
	for i, sub := range r.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s", i+1, sub.String())
	}
	return b.String()
}
