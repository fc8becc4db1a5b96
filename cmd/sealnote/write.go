package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/sealnote/pkg/core"
)

var (
	writeTitle        string
	writeProtect      bool
	writeNotePassword string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Create a note",
	Long: `Create a note from --text, --file or --doc. With --protect the content is
encrypted under its own password (--note-password or a prompt), which the
master password alone cannot open.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, _, err := readContent(cmd)
		if err != nil {
			return err
		}

		req := core.CreateNote{
			Title:       writeTitle,
			Content:     content,
			HasPassword: writeProtect,
			Password:    writeNotePassword,
		}
		if req.HasPassword && req.Password == "" {
			req.Password, err = newPassword("Note password: ")
			if err != nil {
				return err
			}
		}

		app, err := openUnlocked(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.API.CreateNote(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Created note %s\n", markOK, res.Note.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVarP(&writeTitle, "title", "t", "", "Note title")
	writeCmd.Flags().BoolVar(&writeProtect, "protect", false, "Protect the note with its own password")
	writeCmd.Flags().StringVar(&writeNotePassword, "note-password", "", "Password of the protected note")
	addContentFlags(writeCmd)
}
