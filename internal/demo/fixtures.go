// Package demo builds a small, consistent data set for local runs and
// loads it into any store backend.
package demo

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/clients"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/domain/warehouse"
)

// Set is a complete fixture graph. Repairs and movements reference the
// clients, technicians and items of the same set by id.
type Set struct {
	Clients     []clients.Client
	Technicians []technicians.Technician
	Repairs     []repairs.Repair
	Items       []warehouse.InventoryItem
	Zones       []warehouse.Zone
	Movements   []warehouse.StockMovement
}

// Build returns a set whose dates are relative to now.
func Build(now time.Time) Set {
	now = now.UTC()
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }

	var s Set

	s.Clients = []clients.Client{
		client("Anna Kowalski", "+48 501 200 300", "anna@example.com", daysAgo(40)),
		client("Marek Nowak", "+48 502 111 222", "", daysAgo(21)),
		client("Olena Shevchenko", "+48 503 444 555", "olena@example.com", daysAgo(6)),
		client("Piotr Zielinski", "+48 504 777 888", "", daysAgo(2)),
		client("Sofia Lewandowska", "+48 505 999 000", "sofia@example.com", now),
	}

	s.Technicians = []technicians.Technician{
		technician("Ivan Petrenko", technicians.StatusBusy, "35", 142, 4.8, "Phones", "Tablets"),
		technician("Kasia Wojcik", technicians.StatusAvailable, "32", 98, 4.6, "Laptops"),
		technician("Tomasz Kaminski", technicians.StatusOnBreak, "28", 57, 4.2, "Consoles", "Audio"),
		technician("Lena Fischer", technicians.StatusOffDuty, "30", 12, 3.9, "Phones"),
	}

	c, t := s.Clients, s.Technicians
	s.Repairs = []repairs.Repair{
		newRepair(c[0], &t[0], "Phone", "Pixel 8", "Cracked screen", repairs.StatusInProgress, repairs.PriorityHigh, "180", daysAgo(1)),
		newRepair(c[1], &t[1], "Laptop", "ThinkPad T14", "Does not boot", repairs.StatusWaitingParts, repairs.PriorityMedium, "250", daysAgo(3)),
		newRepair(c[2], nil, "Tablet", "iPad Air", "Battery drains fast", repairs.StatusNew, repairs.PriorityLow, "120", daysAgo(0)),
		newRepair(c[3], &t[2], "Console", "PS5", "HDMI port loose", repairs.StatusNew, repairs.PriorityUrgent, "90", daysAgo(2)),
		finished(newRepair(c[0], &t[0], "Phone", "Galaxy S23", "Water damage", repairs.StatusCompleted, repairs.PriorityHigh, "300", daysAgo(12)), "340", 4*24*time.Hour),
		finished(newRepair(c[1], &t[1], "Laptop", "MacBook Air", "Keyboard keys stuck", repairs.StatusCompleted, repairs.PriorityMedium, "150", daysAgo(9)), "150", 2*24*time.Hour),
		finished(newRepair(c[4], &t[0], "Phone", "iPhone 14", "Camera blurry", repairs.StatusCompleted, repairs.PriorityLow, "110", daysAgo(5)), "95", 30*time.Hour),
		newRepair(c[2], &t[3], "Headphones", "WH-1000XM5", "Left cup silent", repairs.StatusCancelled, repairs.PriorityLow, "60", daysAgo(15)),
	}

	s.Items = []warehouse.InventoryItem{
		item("Pixel 8 display", "DSP-PX8", "Displays", 6, 3, "95"),
		item("ThinkPad keyboard", "KBD-T14", "Keyboards", 1, 2, "40"),
		item("Li-ion battery 5000mAh", "BAT-5000", "Batteries", 18, 5, "22"),
		item("HDMI port module", "HDMI-PS5", "Connectors", 0, 4, "12"),
	}

	s.Zones = []warehouse.Zone{
		zone("Main shelf A", 400, 185, "Ground floor", "Kasia Wojcik", nil),
		zone("Battery cabinet", 120, 84, "Back room", "Ivan Petrenko", celsius(18)),
		zone("Returns bin", 50, 47, "Front desk", "", nil),
	}

	i := s.Items
	s.Movements = []warehouse.StockMovement{
		movement(i[0], warehouse.MovementIn, 8, "90", "Parts Hub", "IN-%s-00001", daysAgo(10)),
		movement(i[0], warehouse.MovementOut, 2, "95", "", "OUT-%s-00001", daysAgo(4)),
		movement(i[2], warehouse.MovementIn, 20, "20", "Cell Supply", "IN-%s-00002", daysAgo(7)),
		movement(i[2], warehouse.MovementOut, 2, "22", "", "OUT-%s-00002", daysAgo(1)),
		movement(i[3], warehouse.MovementOut, 4, "12", "", "OUT-%s-00003", daysAgo(2)),
	}

	return s
}

// Validate checks every record of the set.
func (s Set) Validate(ctx context.Context) error {
	if err := validateAll(ctx, "client", s.Clients); err != nil {
		return err
	}
	if err := validateAll(ctx, "technician", s.Technicians); err != nil {
		return err
	}
	if err := validateAll(ctx, "repair", s.Repairs); err != nil {
		return err
	}
	if err := validateAll(ctx, "inventory item", s.Items); err != nil {
		return err
	}
	if err := validateAll(ctx, "zone", s.Zones); err != nil {
		return err
	}
	return validateAll(ctx, "movement", s.Movements)
}

func validateAll[T entity.Validatable](ctx context.Context, what string, records []T) error {
	for n, r := range records {
		if err := r.Validate(ctx); err != nil {
			return fmt.Errorf("%s #%d: %w", what, n, err)
		}
	}
	return nil
}

func client(name, phone, email string, createdAt time.Time) clients.Client {
	return clients.Client{
		ID:        id.New(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: createdAt,
	}
}

func technician(name string, status technicians.Status, rate string, completed int64, rating float64, skills ...string) technicians.Technician {
	return technicians.Technician{
		ID:               id.New(),
		Name:             name,
		Phone:            "+48 600 000 000",
		Specialization:   skills,
		Status:           status,
		HourlyRate:       types.MustMoney(rate),
		HireDate:         time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC),
		CompletedRepairs: completed,
		Rating:           rating,
	}
}

func newRepair(c clients.Client, t *technicians.Technician, device, model, problem string, status repairs.Status, priority repairs.Priority, estimate string, createdAt time.Time) repairs.Repair {
	r := repairs.Repair{
		ID:            id.New(),
		ClientID:      c.ID,
		ClientName:    c.Name,
		DeviceType:    device,
		DeviceModel:   model,
		Problem:       problem,
		Status:        status,
		Priority:      priority,
		EstimatedCost: types.MustMoney(estimate),
		EstimatedDays: 3,
		CreatedAt:     createdAt,
	}
	if t != nil {
		name := t.Name
		r.TechnicianID = id.Ptr(t.ID)
		r.TechnicianName = &name
	}
	return r
}

func finished(r repairs.Repair, final string, took time.Duration) repairs.Repair {
	r.FinalCost = types.MoneyPtr(types.MustMoney(final))
	at := r.CreatedAt.Add(took)
	r.CompletedAt = &at
	return r
}

func item(name, sku, category string, qty, minQty int64, price string) warehouse.InventoryItem {
	return warehouse.InventoryItem{
		ID:          id.New(),
		Name:        name,
		SKU:         sku,
		Category:    category,
		Unit:        "pcs",
		Quantity:    qty,
		MinQuantity: minQty,
		Price:       types.MustMoney(price),
	}
}

func zone(name string, capacity, load int64, location, responsible string, temperature *float64) warehouse.Zone {
	return warehouse.Zone{
		ID:          id.New(),
		Name:        name,
		Capacity:    capacity,
		CurrentLoad: load,
		Temperature: temperature,
		Location:    location,
		Responsible: responsible,
	}
}

func movement(i warehouse.InventoryItem, typ warehouse.MovementType, qty int64, cost, supplier, number string, date time.Time) warehouse.StockMovement {
	return warehouse.StockMovement{
		ID:             id.New(),
		ItemID:         i.ID,
		ItemName:       i.Name,
		Type:           typ,
		Quantity:       qty,
		Cost:           types.MustMoney(cost),
		Supplier:       supplier,
		DocumentNumber: fmt.Sprintf(number, date.Format("2006")),
		Date:           date,
	}
}

func celsius(v float64) *float64 { return &v }
