package dispatch

import (
	"context"
	"errors"
	"sync"

	"paramibot/internal/content"
	kit "paramibot/internal/transport"
)

type fakeSource struct {
	mu    sync.Mutex
	items map[content.Language][]content.Item
	errs  map[content.Language]error
	calls int
}

func (s *fakeSource) Load(_ context.Context, lang content.Language) ([]content.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err := s.errs[lang]; err != nil {
		return nil, err
	}
	return s.items[lang], nil
}

func (s *fakeSource) Languages() []content.Language {
	out := make([]content.Language, 0, len(s.items))
	for l := range s.items {
		out = append(out, l)
	}
	return out
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type sent struct {
	To   kit.ChatTarget
	Text string
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sent
	calls   int
	failAt  int // 1-based call number to fail; 0 never
	failFor map[string]bool
}

var errTransport = errors.New("telegram: bad gateway")

func (s *fakeSender) SendText(_ context.Context, to kit.ChatTarget, text string, _ *kit.SendOptions) (kit.MessageRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failAt != 0 && s.calls == s.failAt {
		return kit.MessageRef{}, errTransport
	}
	if s.failFor[to.Recipient()] {
		return kit.MessageRef{}, errTransport
	}
	s.sent = append(s.sent, sent{To: to, Text: text})
	return kit.MessageRef{Chat: to, MessageID: s.calls}, nil
}

func (s *fakeSender) Sent() []sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sent(nil), s.sent...)
}

func (s *fakeSender) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// seqChooser returns a fixed sequence of indexes.
type seqChooser struct {
	mu  sync.Mutex
	seq []int
	i   int
}

func (c *seqChooser) IntN(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.seq[c.i%len(c.seq)]
	c.i++
	return v % n
}
