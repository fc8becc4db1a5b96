package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sealnote"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sealnote",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sealnote version %s\n", strings.TrimSpace(sealnote.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
