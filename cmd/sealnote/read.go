package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	readJSON         bool
	readNotePassword string
)

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Read a note",
	Long: `Read a note by its ID. Prints the title and plain text by default, or the
full note with its rich content as JSON with --json. Protected notes need
--note-password or an interactive prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openUnlocked(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		note, err := app.API.GetNote(ctx, args[0], readNotePassword)
		if err != nil {
			return err
		}
		if note.Locked && canPrompt(cmd) {
			password, err := readPassword("Note password: ")
			if err != nil {
				return err
			}
			note, err = app.API.UnlockNote(ctx, args[0], password)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if readJSON {
			return printJSON(out, note)
		}

		fmt.Fprintln(out, note.Title)
		if note.Locked {
			fmt.Fprintf(out, "%s %s\n", markLocked, note.Message)
			return nil
		}
		if text := note.Content.Text(); text != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
	readCmd.Flags().StringVar(&readNotePassword, "note-password", "", "Password of a protected note")
}
