package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	ctx := context.Background()

	var seen []string
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		seen = append(seen, "first:"+event.TicketID)
		return nil
	})
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		seen = append(seen, "second:"+event.TicketID)
		return nil
	})

	require.NoError(t, dispatcher.Publish(ctx, Event{Type: EventTicketCreated, TicketID: "t1"}))
	assert.Equal(t, []string{"first:t1", "second:t1"}, seen)
}

func TestPublishIgnoresOtherTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.False(t, called)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventSubscriptionActivated}))
}

func TestFailingHandlerDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	reached := false
	dispatcher.Subscribe(EventTicketCommentAdded, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventTicketCommentAdded, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCommentAdded}))
	assert.True(t, reached)
}
