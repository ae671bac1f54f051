package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vrules/valet/internal/cliseq"
	"github.com/vrules/valet/internal/config"
	valet "github.com/vrules/valet"
)

var framesCmd = &cobra.Command{
	Use:   "frames <rules-file> <frame-name> <input.json>",
	Short: "run a frame extractor and print every frame's fields",
	Args:  cobra.ExactArgs(3),
	RunE:  runFrames,
}

func init() {
	rootCmd.AddCommand(framesCmd)
}

func runFrames(cmd *cobra.Command, args []string) error {
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
	frames, err := m.Frames(name, seq)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	for _, fr := range frames {
		lo, hi := fr.Extent()
		fmt.Printf("[%d,%d) %q\n", lo, hi, matchText(seq, lo, hi))
		fieldNames := make([]string, 0, len(fr.Fields))
		for name := range fr.Fields {
			fieldNames = append(fieldNames, name)
		}
		sort.Strings(fieldNames)
		for _, name := range fieldNames {
			for _, v := range fr.Fields[name] {
				vlo, vhi := v.Extent()
				fmt.Printf("  %s: %q\n", name, matchText(seq, vlo, vhi))
			}
		}
	}
	logger.Infof("%s frames in %s", humanize.Comma(int64(len(frames))), elapsed)

	if len(frames) == 0 {
		os.Exit(config.ExitNoMatches)
	}
	os.Exit(config.ExitMatches)
	return nil
}
