package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		totals := tracker.Totals()
		fmt.Printf("Sessions started:   %d\n", totals.SessionsStarted)
		fmt.Printf("Sessions resumed:   %d\n", totals.SessionsResumed)
		fmt.Printf("Answers recorded:   %d\n", totals.AnswersRecorded)
		fmt.Printf("Questions revealed: %d\n", totals.QuestionsRevealed)
		fmt.Printf("Documents rendered: %d\n", totals.DocumentsRendered)

		byLevel := tracker.ByLevel()
		if len(byLevel) == 0 {
			return nil
		}
		levels := make([]string, 0, len(byLevel))
		for level := range byLevel {
			levels = append(levels, level)
		}
		sort.Strings(levels)
		fmt.Println("\nDocuments by level:")
		for _, level := range levels {
			fmt.Printf("  %-12s %d\n", level, byLevel[level])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
