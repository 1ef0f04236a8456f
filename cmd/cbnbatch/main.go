// Command cbnbatch runs the linter over every configuration file in a
// directory tree, sequentially, and summarizes the outcome per file. It is
// a driver around the same Lint pipeline cmd/cbnlint uses one file at a
// time.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cyderes/cbnlint"
	"github.com/cyderes/cbnlint/internal/report"
)

var (
	rootDir    string
	extensions []string
	showDiags  bool
)

func main() {
	cmd := &cobra.Command{
		Use:           "cbnbatch",
		Short:         "Run the CBN linter over a directory tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBatch,
	}
	flags := cmd.Flags()
	flags.StringVarP(&rootDir, "dir", "d", "", "directory tree to lint")
	flags.StringSliceVarP(&extensions, "ext", "x", []string{".conf"}, "config file extensions to lint")
	flags.BoolVarP(&showDiags, "diagnostics", "e", false, "print each failing file's error diagnostics")
	_ = cmd.MarkFlagRequired("dir")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	var total, failed int

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasLintableExt(path) {
			return nil
		}
		total++

		result, lintErr := cbnlint.LintFile(path)
		switch {
		case lintErr != nil:
			failed++
			fmt.Printf("[FAIL] %s: %v\n", path, lintErr)
		case result.ExitCode() != 0:
			failed++
			fmt.Printf("[FAIL] %s: %d error(s), %d warning(s)\n", path, len(result.Errors()), len(result.Warnings()))
			if showDiags {
				fmt.Println(report.ErrorsReport{Path: path, Diagnostics: result.Errors()}.String())
			}
		default:
			fmt.Printf("[OK]   %s\n", path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", rootDir, err)
	}

	fmt.Printf("%d file(s) linted, %d failed\n", total, failed)
	if failed > 0 {
		os.Exit(1)
	}
	return nil
}

func hasLintableExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
