package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bz888/dualchat/internal/api/server/client"
	"github.com/bz888/dualchat/internal/logger"
)

// StreamHint is shown next to every stream failure.
const StreamHint = "Please check your API key and try again."

// StreamError is any failure while opening or draining either stream.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return "Error during API call: " + e.Err.Error()
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

func (e *StreamError) Hint() string {
	return StreamHint
}

// Display is the live surface of one submit. Update carries the full
// accumulated text of one panel. After Fail or Done no further calls are made.
type Display interface {
	Update(side Side, text string)
	Fail(err error)
	Done()
}

type State int

const (
	StateIdle State = iota
	StateStreaming
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what one successful submit produced.
type Result struct {
	Text1  string
	Text2  string
	Rounds int
}

// Renderer issues the two streaming requests of a submit and feeds the
// interleaved fragments to a Display.
type Renderer struct {
	client  client.ChatClientInterface
	display Display
	logger  *logger.Logger

	mu    sync.Mutex
	state State
}

func NewRenderer(c client.ChatClientInterface, display Display) *Renderer {
	return &Renderer{
		client:  c,
		display: display,
		logger:  logger.NewLogger("renderer"),
	}
}

func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Renderer) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Run performs one submit. An invalid request returns its validation error
// without any provider call or display update. Any stream failure is reported
// once through Display.Fail and returned as a *StreamError.
func (r *Renderer) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.setState(StateStreaming)
	r.logger.Info("Submit started:", req.Model, req.Lang1, "/", req.Lang2)

	result, err := r.stream(ctx, req)
	if err != nil {
		streamErr := &StreamError{Err: err}
		r.setState(StateFailed)
		r.logger.Error("Submit failed:", err)
		r.display.Fail(streamErr)
		return nil, streamErr
	}

	r.setState(StateDone)
	r.logger.Info("Submit completed in", result.Rounds, "rounds")
	r.display.Done()
	return result, nil
}

func (r *Renderer) stream(ctx context.Context, req Request) (*Result, error) {
	first, err := r.client.ChatStream(ctx, NewChatRequest(req.Model, req.Prompt, req.Lang1))
	if err != nil {
		return nil, fmt.Errorf("open %s stream: %w", First, err)
	}
	defer first.Close()

	second, err := r.client.ChatStream(ctx, NewChatRequest(req.Model, req.Prompt, req.Lang2))
	if err != nil {
		return nil, fmt.Errorf("open %s stream: %w", Second, err)
	}
	defer second.Close()

	var acc [2]strings.Builder
	rounds, err := Merge(ctx, first, second, func(ev Event) error {
		text, ok := ev.Fragment.Text()
		if !ok {
			return nil
		}
		b := &acc[ev.Side.Index()]
		b.WriteString(text)
		r.display.Update(ev.Side, b.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{Text1: acc[0].String(), Text2: acc[1].String(), Rounds: rounds}, nil
}

// IsStreamError reports whether err came from the streaming phase.
func IsStreamError(err error) bool {
	var streamErr *StreamError
	return errors.As(err, &streamErr)
}
