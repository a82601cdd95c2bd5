package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var got []Event
	d.Subscribe(EventMovementCreated, func(_ context.Context, e Event) error {
		return errors.New("first handler fails")
	})
	d.Subscribe(EventMovementCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventStaffDeleted, func(_ context.Context, e Event) error {
		t.Fatal("unexpected delivery")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventMovementCreated, StaffID: "S1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S1", got[0].StaffID)
	assert.NotEmpty(t, got[0].ID)
}

func TestActors(t *testing.T) {
	a := StaffActor("S9")
	require.NotNil(t, a.StaffID)
	assert.Equal(t, "S9", *a.StaffID)
	assert.False(t, a.System)
	assert.True(t, SystemActor().System)
}
