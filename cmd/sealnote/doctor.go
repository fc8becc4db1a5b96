package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sealnote/internal/platform"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the vault for orphaned or damaged note files",
	Long: `Compare the metadata and content file of every note and report the pairs
that are incomplete or disagree about password protection. Nothing is
modified. Exits non-zero when a problem is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openUnlocked(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		problems := 0

		if err := platform.CheckPermissions(app.Path, logger); errors.Is(err, platform.ErrInsecurePermissions) {
			fmt.Fprintf(out, "%s %s is readable by other users\n", markFail, app.Path)
			fmt.Fprintf(out, "  %s run: chmod -R go-rwx %s\n", markArrow, app.Path)
			problems++
		}

		found, err := app.API.CheckNotes(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range found {
			fmt.Fprintf(out, "%s %s: %s", markFail, f.ID, f.Problem)
			if f.Detail != "" {
				fmt.Fprintf(out, " (%s)", f.Detail)
			}
			fmt.Fprintln(out)
		}
		problems += len(found)

		if problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		fmt.Fprintf(out, "%s No problems found\n", markOK)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
