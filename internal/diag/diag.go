// Package diag holds the linter's diagnostic surface: the accumulating
// error/warning list and the CLI exit-code policy built on it. The list
// is append-only rather than a returned error value, so semantic findings
// are recorded without unwinding the analyzer traversal.
package diag

import "fmt"

// Severity distinguishes a fatal parse error (never represented here —
// parse errors are returned as a parser.SyntaxError and abort before
// analysis starts) from the two semantic diagnostic kinds this package
// actually collects.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Error {
		return "ERROR"
	}
	return "WARN"
}

// Diagnostic is one semantic finding: a line-referenced error or warning
// appended during analysis and printed by the driver.
type Diagnostic struct {
	Severity Severity
	Line     int
	Message  string
}

// String renders the diagnostic line format
// "[ERROR] <path>, line <N>, <message>" / "[WARN] <path>, line <N>, <message>".
func (d Diagnostic) String(path string) string {
	return fmt.Sprintf("[%s] %s, line %d, %s", d.Severity, path, d.Line, d.Message)
}

// Collector accumulates diagnostics during a single analysis run. The
// analyzer never stops early on a semantic finding; it appends here and
// continues.
type Collector struct {
	diagnostics []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// AddError appends an error-severity diagnostic at the given line.
func (c *Collector) AddError(line int, format string, args ...any) {
	c.diagnostics = append(c.diagnostics, Diagnostic{Severity: Error, Line: line, Message: fmt.Sprintf(format, args...)})
}

// AddWarning appends a warning-severity diagnostic at the given line.
func (c *Collector) AddWarning(line int, format string, args ...any) {
	c.diagnostics = append(c.diagnostics, Diagnostic{Severity: Warning, Line: line, Message: fmt.Sprintf(format, args...)})
}

// Errors returns every accumulated error diagnostic, in the order appended
// (source order, per the analyzer's single depth-first traversal).
func (c *Collector) Errors() []Diagnostic { return c.filter(Error) }

// Warnings returns every accumulated warning diagnostic, in source order.
func (c *Collector) Warnings() []Diagnostic { return c.filter(Warning) }

// All returns every diagnostic, in source order.
func (c *Collector) All() []Diagnostic { return c.diagnostics }

func (c *Collector) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool { return len(c.Errors()) > 0 }

// ExitCode implements the exit-code policy: 0 if no errors were
// accumulated (warnings permitted), 1 otherwise.
func (c *Collector) ExitCode() int {
	if c.HasErrors() {
		return 1
	}
	return 0
}
