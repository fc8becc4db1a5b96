package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openUnlocked(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		notes, err := app.API.ListNotes(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return printJSON(out, notes)
		}
		if len(notes) == 0 {
			fmt.Fprintf(out, "%s No notes yet\n", markArrow)
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, n := range notes {
			lock := ""
			if n.HasPassword {
				lock = markLocked
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, n.UpdatedAt.Local().Format("2006-01-02 15:04"), n.Title, lock)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
