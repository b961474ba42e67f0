package client

// SliceStream is an in-memory Stream over a fixed list of fragments. It can be
// told to fail after a number of fragments, which makes it the stand-in for a
// provider stream in tests and in demo mode.
type SliceStream struct {
	fragments []Fragment
	pos       int
	failAfter int
	failErr   error
	current   Fragment
	err       error
	done      bool
	closed    bool
	pulls     int
}

// NewSliceStream returns a stream that yields fragments in order.
func NewSliceStream(fragments ...Fragment) *SliceStream {
	return &SliceStream{fragments: fragments, failAfter: -1}
}

// TextStream is NewSliceStream with one text fragment per argument.
func TextStream(texts ...string) *SliceStream {
	fragments := make([]Fragment, len(texts))
	for i, t := range texts {
		fragments[i] = TextFragment(t)
	}
	return NewSliceStream(fragments...)
}

// TextFragment returns a fragment carrying t.
func TextFragment(t string) Fragment {
	return Fragment{Content: &t}
}

// ControlFragment returns a fragment with no text, like the role-only first
// chunk and the finish chunk of a real stream.
func ControlFragment() Fragment {
	return Fragment{}
}

// FailAfter makes the stream report err once n fragments have been yielded.
func (s *SliceStream) FailAfter(n int, err error) *SliceStream {
	s.failAfter = n
	s.failErr = err
	return s
}

func (s *SliceStream) Next() bool {
	if s.done {
		return false
	}
	s.pulls++
	if s.failAfter >= 0 && s.pos >= s.failAfter {
		s.done = true
		s.err = s.failErr
		s.current = Fragment{}
		return false
	}
	if s.pos >= len(s.fragments) {
		s.done = true
		s.current = Fragment{}
		return false
	}
	s.current = s.fragments[s.pos]
	s.pos++
	return true
}

func (s *SliceStream) Fragment() Fragment {
	return s.current
}

func (s *SliceStream) Err() error {
	return s.err
}

func (s *SliceStream) Close() error {
	s.closed = true
	s.done = true
	return nil
}

// Closed reports whether Close was called.
func (s *SliceStream) Closed() bool {
	return s.closed
}

// Pulls reports how many times Next was called while the stream was live.
func (s *SliceStream) Pulls() int {
	return s.pulls
}
