package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatcher_DeliversAndDrainsOnStop(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, Config{Workers: 2, QueueSize: 10}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	for i := 0; i < 5; i++ {
		require.True(t, d.Enqueue(Message{To: "a@x.io", Subject: "s"}))
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó")
	}
	assert.Equal(t, 5, sender.count())
	assert.False(t, d.Enqueue(Message{To: "late@x.io"}))
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(&recordingSender{}, Config{Workers: 1, QueueSize: 1}, zerolog.Nop())

	assert.True(t, d.Enqueue(Message{To: "a@x.io"}))
	assert.False(t, d.Enqueue(Message{To: "b@x.io"}))
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp caído")}
	d := NewDispatcher(sender, Config{Workers: 1, QueueSize: 2}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.True(t, d.Enqueue(Message{To: "a@x.io"}))
	cancel()
	assert.NoError(t, <-done)
	assert.Equal(t, 1, sender.count())
}
