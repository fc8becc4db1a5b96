package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search note titles and unprotected content",
	Long: `Case-insensitive substring search. Titles of every note are searched; the
content of protected notes is not.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openUnlocked(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		hits, err := app.API.SearchNotes(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchJSON {
			return printJSON(out, hits)
		}
		if len(hits) == 0 {
			fmt.Fprintf(out, "%s No matches\n", markArrow)
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, h := range hits {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", h.ID, h.Title, h.MatchedIn)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
}
