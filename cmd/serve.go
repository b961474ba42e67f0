package cmd

import (
	"github.com/bz888/dualchat/internal/api/server"
	"github.com/bz888/dualchat/internal/logger"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dual-language chat page",
	RunE: func(cmd *cobra.Command, args []string) error {
		startLogging(nil)
		defer logger.Close()

		ctx, stop := signalContext()
		defer stop()
		return server.Run(ctx, serverOptions())
	},
}
