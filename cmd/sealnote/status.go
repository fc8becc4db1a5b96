package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a vault exists and how many notes it holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		st, err := app.API.VaultStatus(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if statusJSON {
			return printJSON(out, st)
		}

		fmt.Fprintf(out, "Data directory: %s\n", app.Path)
		if !st.Initialized {
			fmt.Fprintf(out, "%s No vault yet\n", markArrow)
			fmt.Fprintf(out, "%s Run sealnote init to create one\n", markArrow)
			return nil
		}
		fmt.Fprintf(out, "Version:        %s\n", st.Vault.Version)
		fmt.Fprintf(out, "Created:        %s\n", st.Vault.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "Notes:          %d\n", st.Vault.NotesCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
}
