package chat

import (
	"context"
	"fmt"

	"github.com/bz888/dualchat/internal/api/server/client"
)

// Side identifies one of the two panels.
type Side int

const (
	First Side = iota + 1
	Second
)

func (s Side) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "unknown"
	}
}

// Index is the zero-based position of the side.
func (s Side) Index() int {
	return int(s) - 1
}

// Event is one fragment tagged with the stream it came from.
type Event struct {
	Side     Side
	Fragment client.Fragment
}

// Merge drains two streams with a fair round-robin poll: each round pulls at
// most one fragment from first, then one from second. An exhausted stream is
// never pulled again; the loop ends once both are exhausted. fn sees every
// fragment exactly once, in stream order.
//
// The returned count is the number of rounds in which at least one stream
// produced a fragment, i.e. max(m, n) for streams of m and n fragments. The
// first stream error, fn error or context error ends the merge.
func Merge(ctx context.Context, first, second client.Stream, fn func(Event) error) (int, error) {
	streams := [2]client.Stream{first, second}
	var done [2]bool
	rounds := 0

	for !done[0] || !done[1] {
		if err := ctx.Err(); err != nil {
			return rounds, err
		}

		produced := false
		for i, stream := range streams {
			if done[i] {
				continue
			}
			side := Side(i + 1)
			if !stream.Next() {
				if err := stream.Err(); err != nil {
					return rounds, fmt.Errorf("%s stream: %w", side, err)
				}
				done[i] = true
				continue
			}
			produced = true
			if err := fn(Event{Side: side, Fragment: stream.Fragment()}); err != nil {
				return rounds, err
			}
		}
		if produced {
			rounds++
		}
	}
	return rounds, nil
}
