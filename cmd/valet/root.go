// Command valet is the CLI wrapper around the valet rule engine (spec.md
// §6 "Error codes / exit behavior for a CLI wrapper"): a github.com/
// spf13/cobra command tree exposing apply/frames/check, grounded on the
// retrieval pack's cogentcore-core/cmd rootCmd+Execute pattern (the
// teacher's own cmd/funxy/main.go is a flat flag-less argv switch; cobra
// generalizes it to subcommands with proper exit codes).
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vrules/valet/internal/cli"
	"github.com/vrules/valet/internal/config"
)

var (
	configPath string
	logLevel   string
	forceColor bool
	noColor    bool

	logger *cli.Logger
)

var rootCmd = &cobra.Command{
	Use:   "valet",
	Short: "valet runs information-extraction rules against annotated text",
	Long:  "valet loads rule files written in the valet-rules grammar and runs a named extractor against a tokenized, annotated document.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			return err
		}
		level := logLevel
		if level == "" {
			level = cfg.LogLevel
		}
		color := isatty.IsTerminal(os.Stderr.Fd())
		if cfg.Color != nil {
			color = *cfg.Color
		}
		if forceColor {
			color = true
		}
		if noColor {
			color = false
		}
		timeFormat := cfg.TimeFormat
		logger = cli.NewLogger(os.Stderr, cli.LevelFromString(level), color, timeFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default info)")
	rootCmd.PersistentFlags().BoolVar(&forceColor, "color", false, "force colored diagnostic output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
}

// Execute runs the command tree, translating any error surfaced by a
// subcommand's RunE into the CLI exit codes of spec.md §6.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if code, ok := exitCode(err); ok {
			os.Exit(code)
		}
		os.Exit(config.ExitResolutionError)
	}
}

func main() {
	Execute()
}
