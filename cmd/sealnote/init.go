package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new vault",
	Long: `Create the vault in the data directory, protected by a master password.
The password is read from $SEALNOTE_PASSWORD or prompted twice.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := cmd.Context()
		if !app.API.IsFirstTime(ctx) {
			return fmt.Errorf("a vault already exists in %s", app.Path)
		}

		password, ok := os.LookupEnv(EnvPassword)
		if !ok {
			password, err = newPassword("New master password: ")
			if err != nil {
				return err
			}
		}

		if res := app.API.CreateVault(ctx, password); !res.Success {
			return fmt.Errorf("%s", res.Error)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Vault created in %s\n", markOK, app.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
