package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openUnlocked(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if _, err := app.API.DeleteNote(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted note %s\n", markOK, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
