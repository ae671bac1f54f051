package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vrules/valet/internal/cliseq"
	"github.com/vrules/valet/internal/config"
	"github.com/vrules/valet/internal/render"
	valet "github.com/vrules/valet"
)

var applyCmd = &cobra.Command{
	Use:   "apply <rules-file> <extractor-name> <input.json>",
	Short: "run an extractor and print every match",
	Args:  cobra.ExactArgs(3),
	RunE:  runApply,
}

var applyTree bool

func init() {
	applyCmd.Flags().BoolVar(&applyTree, "tree", false, "print each match's full submatch tree instead of its extent")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	rulesFile, name, inputPath := args[0], args[1], args[2]

	m := valet.New()
	if err := m.ParseFile(rulesFile); err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	seq, err := cliseq.Load(f)
	if err != nil {
		return err
	}

	start := time.Now()
	matches, err := m.Apply(name, seq)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, mt := range matches {
		if applyTree {
			fmt.Print(render.Tree(mt))
			continue
		}
		lo, hi := mt.Extent()
		fmt.Printf("[%d,%d) %q\n", lo, hi, matchText(seq, lo, hi))
	}
	logger.Infof("%s matches in %s", humanize.Comma(int64(len(matches))), elapsed)

	if len(matches) == 0 {
		os.Exit(config.ExitNoMatches)
	}
	os.Exit(config.ExitMatches)
	return nil
}

func matchText(seq interface {
	Text() string
	Offset(int) (int, int)
}, lo, hi int) string {
	if hi <= lo {
		return ""
	}
	start, _ := seq.Offset(lo)
	lastStart, lastLen := seq.Offset(hi - 1)
	end := lastStart + lastLen
	text := seq.Text()
	if start < 0 || end > len(text) || start > end {
		return ""
	}
	return text[start:end]
}
