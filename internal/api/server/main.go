package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/api/server/handlers"
	"github.com/bz888/dualchat/internal/logger"
	"github.com/bz888/dualchat/internal/session"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var LocalLogger *logger.Logger

func Init() {
	LocalLogger = logger.NewLogger("Server")
}

// NewClientFactory picks the provider each confirmed session talks to.
func NewClientFactory(opts Options) (session.ClientFactory, error) {
	if opts.Demo {
		LocalLogger.Warn("Demo mode: responses are generated locally")
		demo := client.NewDemoClient()
		return func(string) client.ChatClientInterface { return demo }, nil
	}

	cfg, err := client.OpenAIConfig(opts.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("openai base url: %w", err)
	}
	LocalLogger.Info("Provider endpoints:", cfg.Scheme+"://"+cfg.Host+cfg.BasePath)
	return func(apiKey string) client.ChatClientInterface {
		return client.NewOpenAIClient(cfg, apiKey)
	}, nil
}

// NewMux wires every route behind the access log.
func NewMux(sessions *session.Store) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers.NewHandler(sessions), sessions)
	return loggingMiddleware(mux)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, opts Options) error {
	factory, err := NewClientFactory(opts)
	if err != nil {
		return err
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	sessions := session.NewStore(factory, ttl)
	go sessions.Run(ctx)

	listener, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           NewMux(sessions),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		LocalLogger.Info("Server started on http://" + listener.Addr().String() + "/")
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	LocalLogger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
