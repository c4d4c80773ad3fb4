package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReceivesEvent(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ch := b.Subscribe(t.Context())
	b.Publish(UpdatedEvent, "status")

	msg := ListenCmd(t.Context(), ch)()

	ev, ok := msg.(Event[string])
	require.True(t, ok)
	require.Equal(t, UpdatedEvent, ev.Type)
	require.Equal(t, "status", ev.Payload)
}

func TestListenCmd_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan Event[string])
	require.Nil(t, ListenCmd(ctx, ch)())
}

func TestListenCmd_ChannelClosed(t *testing.T) {
	ch := make(chan Event[string])
	close(ch)
	require.Nil(t, ListenCmd(t.Context(), ch)())
}

func TestContinuousListener_Listen(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()

	l := NewContinuousListener(t.Context(), b)
	b.Publish(CreatedEvent, 1)
	b.Publish(CreatedEvent, 2)

	first := l.Listen()().(Event[int])
	second := l.Listen()().(Event[int])
	require.Equal(t, 1, first.Payload)
	require.Equal(t, 2, second.Payload)
}
