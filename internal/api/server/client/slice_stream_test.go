package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceStream(t *testing.T) {
	s := NewSliceStream(ControlFragment(), TextFragment("a"), TextFragment(""))

	require.True(t, s.Next())
	_, ok := s.Fragment().Text()
	assert.False(t, ok, "control fragment has no text")

	require.True(t, s.Next())
	text, ok := s.Fragment().Text()
	assert.True(t, ok)
	assert.Equal(t, "a", text)

	require.True(t, s.Next())
	_, ok = s.Fragment().Text()
	assert.False(t, ok, "empty content counts as no text")

	assert.False(t, s.Next())
	assert.False(t, s.Next())
	assert.NoError(t, s.Err())
	assert.Equal(t, 4, s.Pulls())
}

func TestSliceStream_FailAfter(t *testing.T) {
	boom := errors.New("connection reset")
	s := TextStream("one", "two", "three").FailAfter(1, boom)

	assert.True(t, s.Next())
	assert.False(t, s.Next())
	assert.ErrorIs(t, s.Err(), boom)

	require.NoError(t, s.Close())
	assert.True(t, s.Closed())
}

func TestDemoClient(t *testing.T) {
	c := &DemoClient{}

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, models, 3)

	stream, err := c.ChatStream(context.Background(), &OpenAIChatRequest{
		Model: "gpt-4o",
		Messages: []OpenAIChatMessage{
			{Role: RoleSystem, Content: "system"},
			{Role: RoleUser, Content: "hello there"},
		},
	})
	require.NoError(t, err)

	var out string
	for stream.Next() {
		if text, ok := stream.Fragment().Text(); ok {
			out += text
		}
	}
	require.NoError(t, stream.Err())
	assert.Equal(t, "[gpt-4o demo] hello there ", out)
}

func TestDemoClient_Cancelled(t *testing.T) {
	c := &DemoClient{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := c.ChatStream(ctx, &OpenAIChatRequest{Model: "gpt-4o"})
	require.NoError(t, err)

	cancel()
	assert.False(t, stream.Next())
	assert.ErrorIs(t, stream.Err(), context.Canceled)
}
