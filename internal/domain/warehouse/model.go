// Package warehouse holds inventory items, storage zones and the stock
// movement ledger.
package warehouse

import (
	"context"
	"time"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
)

// Record kinds in stores.
const (
	ItemKind     = "inventory_item"
	ZoneKind     = "warehouse_zone"
	MovementKind = "stock_movement"
)

// InventoryItem is a stocked part or consumable.
//
// Quantity may go negative through the ledger; it is not clamped.
type InventoryItem struct {
	ID          id.ID       `json:"id"`
	Name        string      `json:"name"`
	SKU         string      `json:"sku,omitempty"`
	Category    string      `json:"category,omitempty"`
	Unit        string      `json:"unit"`
	Quantity    int64       `json:"quantity"`
	MinQuantity int64       `json:"minQuantity"`
	Price       types.Money `json:"price"`
}

var _ entity.Record[InventoryItem] = InventoryItem{}

// GetID implements entity.Record.
func (i InventoryItem) GetID() id.ID { return i.ID }

// WithID implements entity.Record.
func (i InventoryItem) WithID(v id.ID) InventoryItem {
	i.ID = v
	return i
}

// Clone implements entity.Record.
func (i InventoryItem) Clone() InventoryItem { return i }

// Validate implements entity.Validatable.
func (i InventoryItem) Validate(ctx context.Context) error {
	if err := entity.RequireText("name", i.Name); err != nil {
		return err
	}
	if err := entity.RequireText("unit", i.Unit); err != nil {
		return err
	}
	if err := entity.RequireNonNegative("minQuantity", i.MinQuantity); err != nil {
		return err
	}
	if i.Price.IsNegative() {
		return apperror.NewFieldValidation("price", "price must not be negative")
	}
	return nil
}

// LowStock reports quantity at or below the reorder threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// LowStock returns the items at or below their reorder threshold.
func LowStock(items []InventoryItem) []InventoryItem {
	out := make([]InventoryItem, 0)
	for _, i := range items {
		if i.LowStock() {
			out = append(out, i)
		}
	}
	return out
}

// Zone is a storage area with a nominal capacity.
//
// CurrentLoad is maintained by operators and may exceed Capacity.
type Zone struct {
	ID          id.ID    `json:"id"`
	Name        string   `json:"name"`
	Capacity    int64    `json:"capacity"`
	CurrentLoad int64    `json:"currentLoad"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Location    string   `json:"location,omitempty"`
	Responsible string   `json:"responsible,omitempty"`
}

var _ entity.Record[Zone] = Zone{}

// GetID implements entity.Record.
func (z Zone) GetID() id.ID { return z.ID }

// WithID implements entity.Record.
func (z Zone) WithID(v id.ID) Zone {
	out := z.Clone()
	out.ID = v
	return out
}

// Clone implements entity.Record.
func (z Zone) Clone() Zone {
	if z.Temperature != nil {
		t := *z.Temperature
		z.Temperature = &t
	}
	if z.Humidity != nil {
		h := *z.Humidity
		z.Humidity = &h
	}
	return z
}

// Validate implements entity.Validatable.
func (z Zone) Validate(ctx context.Context) error {
	if err := entity.RequireText("name", z.Name); err != nil {
		return err
	}
	if err := entity.RequireNonNegative("capacity", z.Capacity); err != nil {
		return err
	}
	return entity.RequireNonNegative("currentLoad", z.CurrentLoad)
}

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"

	// AnyMovementType matches both directions in filters.
	AnyMovementType MovementType = ""
)

// Valid reports whether t is in or out.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// StockMovement is one entry of the stock ledger.
type StockMovement struct {
	ID       id.ID        `json:"id"`
	ItemID   id.ID        `json:"itemId"`
	ItemName string       `json:"itemName"`
	Type     MovementType `json:"type"`
	Quantity int64        `json:"quantity"`

	// FromZone is meaningful for out movements, ToZone for in movements.
	FromZone *id.ID `json:"fromZone,omitempty"`
	ToZone   *id.ID `json:"toZone,omitempty"`

	// Cost is the unit cost.
	Cost           types.Money `json:"cost"`
	Supplier       string      `json:"supplier,omitempty"`
	DocumentNumber string      `json:"documentNumber,omitempty"`
	Reason         string      `json:"reason,omitempty"`
	Date           time.Time   `json:"date"`
}

var _ entity.Record[StockMovement] = StockMovement{}

// GetID implements entity.Record.
func (m StockMovement) GetID() id.ID { return m.ID }

// WithID implements entity.Record.
func (m StockMovement) WithID(v id.ID) StockMovement {
	out := m.Clone()
	out.ID = v
	return out
}

// Clone implements entity.Record.
func (m StockMovement) Clone() StockMovement {
	if m.FromZone != nil {
		m.FromZone = id.Ptr(*m.FromZone)
	}
	if m.ToZone != nil {
		m.ToZone = id.Ptr(*m.ToZone)
	}
	return m
}

// Validate implements entity.Validatable.
func (m StockMovement) Validate(ctx context.Context) error {
	if err := entity.RequireID("itemId", m.ItemID); err != nil {
		return err
	}
	if !m.Type.Valid() {
		return apperror.NewInvalidMovement("movement type must be in or out").
			WithDetail("field", "type").
			WithDetail("value", m.Type)
	}
	if m.Quantity <= 0 {
		return apperror.NewInvalidMovement("quantity must be greater than 0").
			WithDetail("field", "quantity").
			WithDetail("value", m.Quantity)
	}
	if m.Cost.IsNegative() {
		return apperror.NewFieldValidation("cost", "cost must not be negative")
	}
	if m.Date.IsZero() {
		return apperror.NewFieldValidation("date", "date is required")
	}
	return nil
}

// Value is cost * quantity.
func (m StockMovement) Value() types.Money {
	return m.Cost.Mul(types.NewMoneyFromInt(m.Quantity))
}

// Delta is the signed quantity change the movement applies.
func (m StockMovement) Delta() int64 {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
