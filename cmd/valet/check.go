package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	valet "github.com/vrules/valet"
)

var requirementsOf string

var checkCmd = &cobra.Command{
	Use:   "check <rules-file>",
	Short: "parse a rule file and, optionally, report an extractor's NLP capability requirements",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&requirementsOf, "requirements", "", "print the capability requirements of this extractor name")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	rulesFile := args[0]

	m := valet.New()
	if err := m.ParseFile(rulesFile); err != nil {
		return err
	}
	logger.Infof("%s: parsed OK", rulesFile)

	if requirementsOf == "" {
		return nil
	}
	caps, err := m.Requirements(requirementsOf)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(caps))
	for c := range caps {
		names = append(names, string(c))
	}
	sort.Strings(names)
	if len(names) == 0 {
		fmt.Printf("%s: no NLP capabilities required\n", requirementsOf)
		return nil
	}
	for _, c := range names {
		fmt.Println(c)
	}
	return nil
}
