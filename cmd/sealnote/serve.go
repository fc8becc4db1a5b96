package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/sealnote"
	notelifecycle "github.com/aretw0/sealnote/pkg/adapters/lifecycle"
	"github.com/aretw0/sealnote/pkg/ipc"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer JSON requests on stdin/stdout",
	Long: `Serve the vault API as newline-delimited JSON on stdin/stdout, one request
per line:

  {"id":1,"channel":"vault:unlock","params":{"password":"..."}}

With --watch, changes made to note files by other processes are pushed as
{"event":"notes:changed",...} lines. The vault is locked when stdin closes
or the process is interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd, sealnote.WithWatch(serveWatch))
		if err != nil {
			return err
		}
		defer app.Close()

		var opts []ipc.Option
		if serveWatch {
			opts = append(opts, ipc.WithNotifications(notelifecycle.NewSource(app.Events())))
		}

		logger.Info("serving", "path", app.Path, "watch", serveWatch)
		srv := ipc.NewServer(app.API, logger, opts...)
		return srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Push note change notifications")
}
