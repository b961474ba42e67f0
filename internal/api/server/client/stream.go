package client

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Fragment is one incremental unit of a streamed completion.
type Fragment struct {
	Content      *string
	FinishReason *string
}

// Text returns the fragment's text and whether it carries any.
func (f Fragment) Text() (string, bool) {
	if f.Content == nil || *f.Content == "" {
		return "", false
	}
	return *f.Content, true
}

// Stream is a lazy, finite sequence of fragments. It is consumed once:
// Next advances and reports whether a fragment is available, Fragment returns
// it, and Err reports why iteration stopped (nil on clean exhaustion).
type Stream interface {
	Next() bool
	Fragment() Fragment
	Err() error
	Close() error
}

var (
	dataPrefix = []byte("data:")
	doneMarker = []byte("[DONE]")
)

// sseStream reads OpenAI server-sent events off a response body.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	current Fragment
	err     error
	done    bool
}

func newSSEStream(body io.ReadCloser) *sseStream {
	scanner := bufio.NewScanner(body)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 512*1024)
	return &sseStream{body: body, scanner: scanner}
}

func (s *sseStream) Next() bool {
	if s.done {
		return false
	}
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		// blank separators, comments and event: lines carry no payload
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}
		data := bytes.TrimSpace(bytes.TrimPrefix(line, dataPrefix))
		if len(data) == 0 {
			continue
		}
		if bytes.Equal(data, doneMarker) {
			s.finish(nil)
			return false
		}

		var chunk OpenAIChatResponse
		if err := json.Unmarshal(data, &chunk); err != nil {
			s.finish(fmt.Errorf("decode stream chunk: %w", err))
			return false
		}
		if chunk.Error != nil {
			s.finish(&APIError{StatusCode: 200, Message: chunk.Error.Message, Type: chunk.Error.Type})
			return false
		}

		s.current = Fragment{}
		if len(chunk.Choices) > 0 {
			s.current.Content = chunk.Choices[0].Delta.Content
			s.current.FinishReason = chunk.Choices[0].FinishReason
		}
		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.finish(fmt.Errorf("read stream: %w", err))
	} else {
		s.finish(nil)
	}
	return false
}

func (s *sseStream) finish(err error) {
	s.done = true
	s.err = err
	s.current = Fragment{}
}

func (s *sseStream) Fragment() Fragment {
	return s.current
}

func (s *sseStream) Err() error {
	return s.err
}

func (s *sseStream) Close() error {
	s.done = true
	return s.body.Close()
}
