package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_Subscribe(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ch := b.Subscribe(t.Context())
	require.Equal(t, 1, b.Publish(CreatedEvent, "hello"))

	select {
	case ev := <-ch:
		require.Equal(t, CreatedEvent, ev.Type)
		require.Equal(t, "hello", ev.Payload)
		require.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	b := NewBroker[int]()
	defer b.Close()

	ch1 := b.Subscribe(t.Context())
	ch2 := b.Subscribe(t.Context())
	require.Equal(t, 2, b.SubscriberCount())

	require.Equal(t, 2, b.Publish(StreamedEvent, 7))
	require.Equal(t, 7, (<-ch1).Payload)
	require.Equal(t, 7, (<-ch2).Payload)
}

func TestBroker_ContextCancellationUnsubscribes(t *testing.T) {
	b := NewBroker[string]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()

	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok, "channel should be closed after cancel")
}

func TestBroker_FullBufferDropsWithoutBlocking(t *testing.T) {
	b := NewBrokerWithBuffer[int](1)
	defer b.Close()

	ch := b.Subscribe(t.Context())

	done := make(chan struct{})
	go func() {
		b.Publish(CreatedEvent, 1)
		b.Publish(CreatedEvent, 2)
		b.Publish(CreatedEvent, 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	require.Equal(t, 1, (<-ch).Payload)
	require.Equal(t, uint64(2), b.Dropped())
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker[string]()
	ch := b.Subscribe(t.Context())

	b.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Equal(t, 0, b.SubscriberCount())
	require.Equal(t, 0, b.Publish(CreatedEvent, "late"))

	// Subscribing after close yields an already-closed channel.
	_, ok = <-b.Subscribe(t.Context())
	require.False(t, ok)
}

func TestBroker_CloseIdempotent(t *testing.T) {
	b := NewBroker[string]()
	b.Subscribe(t.Context())
	require.NotPanics(t, func() {
		b.Close()
		b.Close()
	})
}

func TestBroker_CancelAfterCloseDoesNotPanic(t *testing.T) {
	b := NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	b.Subscribe(ctx)

	b.Close()
	require.NotPanics(t, func() { cancel() })
}

func TestNewBrokerWithBuffer_ClampsSize(t *testing.T) {
	b := NewBrokerWithBuffer[int](0)
	defer b.Close()

	ch := b.Subscribe(t.Context())
	require.Equal(t, 1, b.Publish(CreatedEvent, 1))
	require.Equal(t, 1, (<-ch).Payload)
}
