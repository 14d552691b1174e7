package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPending(t *testing.T) *DonationAppointment {
	t.Helper()
	now := time.Now()
	a, err := NewAppointment(uuid.New(), uuid.New(), now.Add(48*time.Hour), "first donation", now)
	require.NoError(t, err)
	return a
}

func TestNewAppointment(t *testing.T) {
	now := time.Now()

	t.Run("books a pending appointment", func(t *testing.T) {
		a := newPending(t)
		assert.Equal(t, StatusPending, a.Status)
		assert.Equal(t, "first donation", a.Notes)

		events := a.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeAppointmentBooked, events[0].EventType())
	})

	t.Run("rejects past slots", func(t *testing.T) {
		_, err := NewAppointment(uuid.New(), uuid.New(), now.Add(-time.Hour), "", now)
		require.Error(t, err)
	})

	t.Run("rejects missing donor or center", func(t *testing.T) {
		_, err := NewAppointment(uuid.Nil, uuid.New(), now.Add(time.Hour), "", now)
		require.Error(t, err)

		_, err = NewAppointment(uuid.New(), uuid.Nil, now.Add(time.Hour), "", now)
		require.Error(t, err)
	})
}

func TestAppointment_Transitions(t *testing.T) {
	now := time.Now()

	t.Run("pending confirm complete", func(t *testing.T) {
		a := newPending(t)
		require.NoError(t, a.Confirm(now))
		assert.Equal(t, StatusConfirmed, a.Status)

		require.NoError(t, a.Complete(now.Add(48*time.Hour)))
		assert.Equal(t, StatusCompleted, a.Status)
		require.NotNil(t, a.CompletedAt)
	})

	t.Run("reject records staff notes", func(t *testing.T) {
		a := newPending(t)
		require.NoError(t, a.Reject("donor recently hospitalized", now))
		assert.Equal(t, StatusRejected, a.Status)
		assert.Equal(t, "donor recently hospitalized", a.StaffNotes)
	})

	t.Run("cancel allowed from pending and confirmed", func(t *testing.T) {
		a := newPending(t)
		require.NoError(t, a.Cancel(now))
		assert.Equal(t, StatusCancelled, a.Status)

		b := newPending(t)
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("complete requires confirmation first", func(t *testing.T) {
		a := newPending(t)
		require.Error(t, a.Complete(now))
		assert.Equal(t, StatusPending, a.Status)
	})

	t.Run("no-show only after the slot passed", func(t *testing.T) {
		a := newPending(t)
		require.NoError(t, a.Confirm(now))

		require.Error(t, a.MarkNoShow(now))
		assert.Equal(t, StatusConfirmed, a.Status)

		require.NoError(t, a.MarkNoShow(a.ScheduledAt.Add(time.Hour)))
		assert.Equal(t, StatusNoShow, a.Status)
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		a := newPending(t)
		require.NoError(t, a.Cancel(now))

		require.Error(t, a.Confirm(now))
		require.Error(t, a.Cancel(now))
		require.Error(t, a.Complete(now))
		assert.Equal(t, StatusCancelled, a.Status)
		assert.True(t, a.Status.IsTerminal())
	})
}
