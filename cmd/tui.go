package cmd

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bz888/dualchat/internal/api"
	"github.com/bz888/dualchat/internal/api/server"
	"github.com/bz888/dualchat/internal/config"
	"github.com/bz888/dualchat/internal/logger"
	"github.com/bz888/dualchat/internal/ui"
	"github.com/spf13/cobra"
)

const serverReadyTimeout = 5 * time.Second

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the terminal client against an in-process server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.Init()
		debugConsole, err := ui.GetDebugConsole()
		if err != nil {
			return err
		}
		startLogging(debugConsole)
		defer logger.Close()

		ctx, stop := signalContext()
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		serverErr := make(chan error, 1)
		go func() { serverErr <- server.Run(ctx, serverOptions()) }()

		baseURL, err := localURL(config.Addr)
		if err != nil {
			return err
		}
		c, err := api.NewClient(baseURL)
		if err != nil {
			return err
		}

		readyCtx, readyCancel := context.WithTimeout(ctx, serverReadyTimeout)
		defer readyCancel()
		if err := c.WaitReady(readyCtx); err != nil {
			select {
			case runErr := <-serverErr:
				return runErr
			default:
				return err
			}
		}

		uiErr := ui.Run(ctx, c, config.Dev)
		cancel()
		if err := <-serverErr; err != nil {
			return err
		}
		return uiErr
	},
}

// localURL turns a listen address such as ":8080" into a URL the client can
// dial.
func localURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid addr %q: %w", addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port), nil
}
