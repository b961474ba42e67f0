package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bz888/dualchat/internal/api/server"
	"github.com/bz888/dualchat/internal/config"
	"github.com/bz888/dualchat/internal/logger"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "dualchat",
	Short: "Ask once, read the answer in two languages",
	Long: `dualchat sends one request to an OpenAI chat model twice, each time asking
for the answer in a different language, and streams both answers side by side.

Use "dualchat serve" for the web page or "dualchat tui" for the terminal.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Init(cmd.Flags())
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(serveCmd, tuiCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// startLogging sets up the shared logger and the components that hold one.
// view receives dev output; nil means stderr.
func startLogging(view io.Writer) {
	logger.InitLogger(config.Dev, config.LogPath, view)
	server.Init()
}

func serverOptions() server.Options {
	return server.Options{
		Addr:          config.Addr,
		OpenAIBaseURL: config.OpenAIBaseURL,
		Demo:          config.Demo,
		SessionTTL:    config.SessionTTL,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
