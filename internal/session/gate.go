package session

import (
	"context"
	"errors"
	"sync"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/logger"
)

var (
	ErrMissingKey   = errors.New("please enter your API key first")
	ErrNotConfirmed = errors.New("API key not confirmed")
)

// AuthError means the provider did not accept the key, or could not be
// reached to check it.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "Invalid API key: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ClientFactory builds a provider client for one API key.
type ClientFactory func(apiKey string) client.ChatClientInterface

// State is the session's credential. It lives only in memory.
type State struct {
	APIKey    string
	Confirmed bool
}

// String never prints the key.
func (s State) String() string {
	if s.Confirmed {
		return "State{confirmed}"
	}
	return "State{unconfirmed}"
}

// Gate holds one session's credential and guards everything behind it.
type Gate struct {
	newClient ClientFactory
	logger    *logger.Logger

	mu    sync.Mutex
	state State
}

func NewGate(factory ClientFactory) *Gate {
	return &Gate{
		newClient: factory,
		logger:    logger.NewLogger("credential gate"),
	}
}

// Validate checks key with a read-only listing call. Only on success is the
// key stored and the session marked confirmed; on failure the state is left
// as it was.
func (g *Gate) Validate(ctx context.Context, key string) error {
	if key == "" {
		return ErrMissingKey
	}

	models, err := g.newClient(key).ListModels(ctx)
	if err != nil {
		g.logger.Warn("API key rejected:", err)
		return &AuthError{Err: err}
	}

	g.mu.Lock()
	g.state = State{APIKey: key, Confirmed: true}
	g.mu.Unlock()

	g.logger.Info("API key confirmed,", len(models), "models visible")
	return nil
}

// Reset forgets the key. It is unconditional and idempotent.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.state = State{}
	g.mu.Unlock()
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) Confirmed() bool {
	return g.State().Confirmed
}

// Client returns a provider client for the confirmed key.
func (g *Gate) Client() (client.ChatClientInterface, error) {
	state := g.State()
	if !state.Confirmed {
		return nil, ErrNotConfirmed
	}
	return g.newClient(state.APIKey), nil
}
