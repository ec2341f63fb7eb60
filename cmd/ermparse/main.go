// Command ermparse parses one or more ERM script files and reports parse
// diagnostics. Its flag layout follows the teacher's cmd/llxgen wrapper
// shape (a thin main.go delegating to a root cobra.Command).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava12/erm/ast"
	"github.com/ava12/erm/config"
	"github.com/ava12/erm/diag"
	"github.com/ava12/erm/parser"
)

var (
	configPath string
	maxLineLen int
	logFile    string
	logFormat  string
	printAST   bool
)

var rootCmd = &cobra.Command{
	Use:   "ermparse [flags] <file>...",
	Short: "Parse ERM/ZVSE script files and report diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().IntVar(&maxLineLen, "max-line-len", 0, "maximum physical line length (0 = use config/default)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "additionally write rotated JSON logs to this file")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "console or json (empty = use config/default)")
	rootCmd.Flags().BoolVar(&printAST, "print-ast", false, "print the parsed AST for every surviving line")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if maxLineLen > 0 {
		cfg.MaxLineLength = maxLineLen
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	var exitErr error
	for _, path := range args {
		sink := diag.NewSlogSink(diag.SlogOptions{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		}, path)

		lines, stats, err := parser.New(path).WithMaxLineLength(cfg.MaxLineLength).ParseFile(sink)
		if err != nil {
			exitErr = err
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: commands=%d comments=%d empty=%d failed=%d (run %s)\n",
			path, stats.Commands, stats.Comments, stats.Empty, stats.Failed, sink.RunID())

		if printAST {
			printLines(cmd, lines)
		}
	}

	return exitErr
}

func printLines(cmd *cobra.Command, lines []ast.Line) {
	for _, l := range lines {
		if l.Kind == ast.LineEmpty {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), l.String())
	}
}
