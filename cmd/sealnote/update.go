package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sealnote/pkg/core"
)

var (
	updateTitle        string
	updateNotePassword string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the title and/or content of a note",
	Long: `Change the title (--title) and/or the content (--text, --file, --doc) of a
note. Changing the content of a protected note needs its password.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd core.NoteUpdate
		if cmd.Flags().Changed("title") {
			upd.Title = &updateTitle
		}
		content, ok, err := readContent(cmd)
		if err != nil {
			return err
		}
		if ok {
			upd.Content = content
		}
		if upd.Empty() {
			return core.ErrNoUpdates
		}

		app, err := openUnlocked(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		id := args[0]
		res, err := app.API.UpdateNote(ctx, id, upd, updateNotePassword)
		if errors.Is(err, core.ErrNoteLocked) && canPrompt(cmd) {
			var password string
			password, err = readPassword("Note password: ")
			if err != nil {
				return err
			}
			res, err = app.API.UpdateNote(ctx, id, upd, password)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Updated note %s\n", markOK, res.Note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title")
	updateCmd.Flags().StringVar(&updateNotePassword, "note-password", "", "Password of a protected note")
	addContentFlags(updateCmd)
}
