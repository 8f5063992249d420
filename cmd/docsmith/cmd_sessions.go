package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docsmith/internal/store"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage stored interview sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sessions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := store.Open(resolvePath(cfg.Storage.DatabasePath))
		if err != nil {
			return err
		}
		defer sessions.Close()

		infos, err := sessions.List()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No stored sessions.")
			return nil
		}
		fmt.Printf("%-38s %-20s %s\n", "ID", "UPDATED", "ANSWERS")
		for _, info := range infos {
			fmt.Printf("%-38s %-20s %d\n",
				info.ID, info.UpdatedAt.Local().Format("2006-01-02 15:04:05"), info.Answered)
		}
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := store.Open(resolvePath(cfg.Storage.DatabasePath))
		if err != nil {
			return err
		}
		defer sessions.Close()

		if err := sessions.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s.\n", args[0])
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}
