package repairs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/id"
)

func TestPrepareCreate(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		r := PrepareCreate(Repair{DeviceType: "Laptop"}, Names{Client: "Ivan"}, testNow)
		assert.Equal(t, StatusNew, r.Status)
		assert.Equal(t, PriorityMedium, r.Priority)
		assert.Equal(t, testNow, r.CreatedAt)
		assert.Equal(t, "Ivan", r.ClientName)
		assert.Nil(t, r.CompletedAt)
	})

	t.Run("open repair drops completion data", func(t *testing.T) {
		in := completed(testNow.Add(-time.Hour), 500, time.Minute)
		in.Status = StatusInProgress

		r := PrepareCreate(in, Names{}, testNow)
		assert.Nil(t, r.FinalCost)
		assert.Nil(t, r.CompletedAt)
	})

	t.Run("completed repair is stamped", func(t *testing.T) {
		in := repair(StatusCompleted, PriorityLow, testNow.Add(-time.Hour))
		in.FinalCost = money(700)

		r := PrepareCreate(in, Names{}, testNow)
		require.NotNil(t, r.CompletedAt)
		assert.Equal(t, testNow, *r.CompletedAt)
		assert.Equal(t, "700", r.FinalCost.String())
	})

	t.Run("missing technician keeps id without name", func(t *testing.T) {
		techID := id.New()
		in := repair(StatusNew, PriorityLow, testNow)
		in.TechnicianID = id.Ptr(techID)

		r := PrepareCreate(in, Names{}, testNow)
		assert.True(t, id.PtrEqual(r.TechnicianID, techID))
		assert.Nil(t, r.TechnicianName)
	})

	t.Run("nil technician id is unassigned", func(t *testing.T) {
		in := repair(StatusNew, PriorityLow, testNow)
		in.TechnicianID = id.Ptr(id.Nil())
		name := "ghost"

		r := PrepareCreate(in, Names{Technician: &name}, testNow)
		assert.Nil(t, r.TechnicianID)
		assert.Nil(t, r.TechnicianName)
	})
}

func TestApplyStatusChange_CompletedAtInvariant(t *testing.T) {
	r := repair(StatusInProgress, PriorityHigh, testNow.Add(-48*time.Hour))

	done := ApplyStatusChange(r, StatusCompleted, testNow)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, testNow, *done.CompletedAt)
	assert.Nil(t, r.CompletedAt, "input untouched")

	later := testNow.Add(time.Hour)
	again := ApplyStatusChange(done, StatusCompleted, later)
	assert.Equal(t, testNow, *again.CompletedAt, "staying completed keeps the first stamp")

	reopened := ApplyStatusChange(done, StatusInProgress, later)
	require.NotNil(t, reopened.CompletedAt)
	assert.Equal(t, testNow, *reopened.CompletedAt)
}

func TestApplyEdit(t *testing.T) {
	current := completed(testNow.Add(-72*time.Hour), 900, 24*time.Hour)
	stamp := *current.CompletedAt

	edit := current.Clone()
	edit.ID = id.New()
	edit.CreatedAt = testNow
	edit.CompletedAt = nil
	edit.Notes = "customer called"

	out := ApplyEdit(current, edit, Names{Client: "Renamed"}, testNow)
	assert.Equal(t, current.ID, out.ID)
	assert.Equal(t, current.CreatedAt, out.CreatedAt)
	require.NotNil(t, out.CompletedAt)
	assert.Equal(t, stamp, *out.CompletedAt)
	assert.Equal(t, "customer called", out.Notes)
	assert.Equal(t, "Renamed", out.ClientName)
}

func TestApplyEdit_TransitionIntoCompleted(t *testing.T) {
	current := repair(StatusWaitingParts, PriorityLow, testNow.Add(-time.Hour))
	edit := current.Clone()
	edit.Status = StatusCompleted

	out := ApplyEdit(current, edit, Names{}, testNow)
	require.NotNil(t, out.CompletedAt)
	assert.Equal(t, testNow, *out.CompletedAt)
}
