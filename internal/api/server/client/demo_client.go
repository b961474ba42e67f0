package client

import (
	"context"
	"strings"
	"time"
)

// DemoClient is an offline provider: every key is accepted and each chat
// streams the user message back word by word.
type DemoClient struct {
	Delay time.Duration
}

func NewDemoClient() *DemoClient {
	return &DemoClient{Delay: 40 * time.Millisecond}
}

func (c *DemoClient) ListModels(ctx context.Context) ([]OpenAIModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []OpenAIModel{
		{ID: "gpt-4o", Object: "model", OwnedBy: "demo"},
		{ID: "gpt-4", Object: "model", OwnedBy: "demo"},
		{ID: "gpt-3.5-turbo", Object: "model", OwnedBy: "demo"},
	}, nil
}

func (c *DemoClient) ChatStream(ctx context.Context, req *OpenAIChatRequest) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var user string
	for _, m := range req.Messages {
		if m.Role == RoleUser {
			user = m.Content
		}
	}

	fragments := []Fragment{ControlFragment(), TextFragment("[" + req.Model + " demo] ")}
	for _, word := range strings.Fields(user) {
		fragments = append(fragments, TextFragment(word+" "))
	}
	fragments = append(fragments, ControlFragment())

	return &pacedStream{SliceStream: NewSliceStream(fragments...), ctx: ctx, delay: c.Delay}, nil
}

// pacedStream waits before each pull so the two panels visibly interleave.
type pacedStream struct {
	*SliceStream
	ctx   context.Context
	delay time.Duration
	err   error
}

func (s *pacedStream) Next() bool {
	if s.err != nil {
		return false
	}
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-s.ctx.Done():
			s.err = s.ctx.Err()
			return false
		case <-timer.C:
		}
	}
	return s.SliceStream.Next()
}

func (s *pacedStream) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.SliceStream.Err()
}
