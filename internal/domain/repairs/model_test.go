package repairs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

func TestRepair_Validate(t *testing.T) {
	ctx := context.Background()
	valid := repair(StatusNew, PriorityLow, testNow)
	require.NoError(t, valid.Validate(ctx))

	tests := []struct {
		name   string
		mutate func(*Repair)
		field  string
	}{
		{"missing client", func(r *Repair) { r.ClientID = id.Nil() }, "clientId"},
		{"blank device type", func(r *Repair) { r.DeviceType = "  " }, "deviceType"},
		{"blank problem", func(r *Repair) { r.Problem = "" }, "problem"},
		{"unknown status", func(r *Repair) { r.Status = "lost" }, "status"},
		{"unknown priority", func(r *Repair) { r.Priority = "whenever" }, "priority"},
		{"negative estimate", func(r *Repair) { r.EstimatedCost = types.NewMoneyFromInt(-1) }, "estimatedCost"},
		{"negative days", func(r *Repair) { r.EstimatedDays = -2 }, "estimatedDays"},
		{"missing createdAt", func(r *Repair) { r.CreatedAt = time.Time{} }, "createdAt"},
		{"completed before created", func(r *Repair) {
			at := r.CreatedAt.Add(-time.Hour)
			r.CompletedAt = &at
		}, "completedAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid.Clone()
			tt.mutate(&r)

			err := r.Validate(ctx)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestRepair_Cost(t *testing.T) {
	r := repair(StatusNew, PriorityLow, testNow)
	assert.True(t, r.Cost().IsZero())

	r.EstimatedCost = types.NewMoneyFromInt(300)
	assert.Equal(t, "300", r.Cost().String())

	r.FinalCost = money(450)
	assert.Equal(t, "450", r.Cost().String())
}

func TestRepair_CloneIsDeep(t *testing.T) {
	r := assigned(completed(testNow, 100, time.Hour), id.New(), "Ann")
	c := r.Clone()

	*c.TechnicianName = "Bob"
	*c.FinalCost = types.NewMoneyFromInt(1)
	*c.CompletedAt = time.Time{}

	assert.Equal(t, "Ann", *r.TechnicianName)
	assert.Equal(t, "100", r.FinalCost.String())
	assert.False(t, r.CompletedAt.IsZero())
}

func TestPriority_Rank(t *testing.T) {
	assert.Equal(t, 4, PriorityUrgent.Rank())
	assert.Equal(t, 3, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityMedium.Rank())
	assert.Equal(t, 1, PriorityLow.Rank())
	assert.Equal(t, 0, Priority("other").Rank())
}
