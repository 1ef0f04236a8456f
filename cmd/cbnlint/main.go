// Command cbnlint lints a CBN filter configuration file: open the file,
// parse and analyze it, print whichever sections of output were requested,
// and exit 1 if any error-severity diagnostic was recorded.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cyderes/cbnlint"
	"github.com/cyderes/cbnlint/internal/logging"
	"github.com/cyderes/cbnlint/internal/report"
)

var (
	configFile string
	showErrors bool
	showWarns  bool
	printState bool
	showUDM    bool
	outputPath string
	logLevel   string
	logFormat  string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cbnlint",
		Short:         "Chronicle CBN configuration linting tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLint,
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config_file", "f", "", "path to the config file to lint")
	flags.BoolVarP(&showErrors, "errors", "e", false, "print the linter's errors to terminal")
	flags.BoolVarP(&showWarns, "warnings", "w", false, "print the linter's warnings to terminal")
	flags.BoolVarP(&printState, "print_state", "s", false, "print the linter's state values to the terminal")
	flags.BoolVarP(&showUDM, "udm", "u", false, "print the UDM fields the config writes")
	flags.StringVarP(&outputPath, "output", "o", "", "file path to print terminal output")
	_ = cmd.MarkFlagRequired("config_file")

	registerLogFlags(flags)

	return cmd
}

// registerLogFlags wires a hidden --log-level/--log-format pflag pair for
// the linter's own diagnostic trace, independent of the -e/-w/-s/-o/-u
// lint report flags above.
func registerLogFlags(flags *pflag.FlagSet) {
	flags.StringVar(&logLevel, "log-level", "info", "linter trace log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "text", "linter trace log format: text, json")
	_ = flags.MarkHidden("log-level")
	_ = flags.MarkHidden("log-format")
}

func runLint(cmd *cobra.Command, args []string) error {
	handler, err := logging.CreateHandlerWithStrings(os.Stderr, logLevel, logFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	src, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	result, err := cbnlint.Lint(configFile, string(src))
	if err != nil {
		fmt.Fprintln(out, err)
		os.Exit(1)
	}

	var sections []report.Report
	if showErrors {
		sections = append(sections, report.ErrorsReport{Path: configFile, Diagnostics: result.Errors()})
	}
	if showWarns {
		sections = append(sections, report.WarningsReport{Path: configFile, Diagnostics: result.Warnings()})
	}
	if printState {
		sections = append(sections, report.StateReport{
			Explicit: result.State.ExplicitNames(),
			Implicit: result.State.ImplicitNames(),
			Values:   result.State.FlattenValueTable(),
		})
	}
	if showUDM {
		sections = append(sections, report.UDMReport{Fields: result.UDMFields()})
	}

	if len(sections) > 0 {
		fmt.Fprintln(out, report.CompositeReport{Sections: sections}.String())
	}

	if result.ExitCode() != 0 {
		os.Exit(result.ExitCode())
	}
	return nil
}
