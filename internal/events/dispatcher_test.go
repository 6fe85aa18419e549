package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventTaskCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventProjectDeleted, func(_ context.Context, e Event) error {
		t.Fatalf("unexpected delivery: %v", e.Type)
		return nil
	})

	err := d.Publish(context.Background(), Event{
		Type:      EventTaskCreated,
		ProjectID: "p1",
		Actor:     Actor{UserID: "u1", Email: "alice@example.com"},
		Payload:   TaskCreatedPayload{TaskID: "t1", Title: "Write docs"},
	})
	require.NoError(t, err)

	require.Len(t, got, 1)
	require.Equal(t, "p1", got[0].ProjectID)
	require.Equal(t, "alice@example.com", got[0].Actor.Email)
}

func TestPublishStampsIDAndTimestamp(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got Event
	d.Subscribe(EventProjectCreated, func(_ context.Context, e Event) error {
		got = e
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventProjectCreated}))
	require.NotEmpty(t, got.ID)
	require.False(t, got.Timestamp.IsZero())

	// Caller-provided stamps are kept as-is.
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventProjectCreated, ID: "evt-1", Timestamp: at}))
	require.Equal(t, "evt-1", got.ID)
	require.Equal(t, at, got.Timestamp)
}

func TestPublishContinuesPastHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	d.Subscribe(EventTaskDeleted, func(context.Context, Event) error {
		return errors.New("boom")
	})
	delivered := false
	d.Subscribe(EventTaskDeleted, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTaskDeleted}))
	require.True(t, delivered)
}
