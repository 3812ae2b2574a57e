package repairs

import (
	"time"

	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

var testNow = time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC)

func money(v int64) *types.Money {
	m := types.NewMoneyFromInt(v)
	return &m
}

func assigned(r Repair, techID id.ID, name string) Repair {
	r.TechnicianID = id.Ptr(techID)
	r.TechnicianName = &name
	return r
}

func repair(status Status, priority Priority, createdAt time.Time) Repair {
	return Repair{
		ID:          id.New(),
		ClientID:    id.New(),
		ClientName:  "Client",
		DeviceType:  "Phone",
		DeviceModel: "Model",
		Problem:     "Broken screen",
		Status:      status,
		Priority:    priority,
		CreatedAt:   createdAt,
	}
}

func completed(createdAt time.Time, final int64, took time.Duration) Repair {
	r := repair(StatusCompleted, PriorityMedium, createdAt)
	r.FinalCost = money(final)
	at := createdAt.Add(took)
	r.CompletedAt = &at
	return r
}
