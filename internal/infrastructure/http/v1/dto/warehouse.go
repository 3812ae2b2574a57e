package dto

import (
	"time"

	"repairdesk/internal/core/types"
	"repairdesk/internal/domain/warehouse"
)

// InventoryItemRequest is the body of POST /inventory.
type InventoryItemRequest struct {
	Name        string      `json:"name" binding:"required"`
	SKU         string      `json:"sku,omitempty"`
	Category    string      `json:"category,omitempty"`
	Unit        string      `json:"unit" binding:"required"`
	Quantity    int64       `json:"quantity"`
	MinQuantity int64       `json:"minQuantity"`
	Price       types.Money `json:"price"`
}

// ToEntity converts the request.
func (r *InventoryItemRequest) ToEntity() warehouse.InventoryItem {
	return warehouse.InventoryItem{
		Name:        r.Name,
		SKU:         r.SKU,
		Category:    r.Category,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		MinQuantity: r.MinQuantity,
		Price:       r.Price,
	}
}

// InventoryListResponse lists items with the low-stock count.
type InventoryListResponse struct {
	ListResponse[warehouse.InventoryItem]
	LowStock int `json:"lowStock"`
}

// ZoneRequest is the body of zone create and update.
type ZoneRequest struct {
	Name        string   `json:"name" binding:"required"`
	Capacity    int64    `json:"capacity"`
	CurrentLoad int64    `json:"currentLoad"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Location    string   `json:"location,omitempty"`
	Responsible string   `json:"responsible,omitempty"`
}

// ToEntity converts the request.
func (r *ZoneRequest) ToEntity() warehouse.Zone {
	return warehouse.Zone{
		Name:        r.Name,
		Capacity:    r.Capacity,
		CurrentLoad: r.CurrentLoad,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
		Location:    r.Location,
		Responsible: r.Responsible,
	}
}

// MovementRequest is the body of POST /warehouse/movements.
type MovementRequest struct {
	ItemID         string                 `json:"itemId" binding:"required"`
	Type           warehouse.MovementType `json:"type" binding:"required"`
	Quantity       int64                  `json:"quantity"`
	FromZone       *string                `json:"fromZone,omitempty"`
	ToZone         *string                `json:"toZone,omitempty"`
	Cost           types.Money            `json:"cost"`
	Supplier       string                 `json:"supplier,omitempty"`
	DocumentNumber string                 `json:"documentNumber,omitempty"`
	Reason         string                 `json:"reason,omitempty"`
	Date           *time.Time             `json:"date,omitempty"`
}

// ToEntity converts the request. A missing date is stamped by the service.
func (r *MovementRequest) ToEntity() (warehouse.StockMovement, error) {
	itemID, err := ParseID("itemId", r.ItemID)
	if err != nil {
		return warehouse.StockMovement{}, err
	}
	from, err := ParseOptionalID("fromZone", r.FromZone)
	if err != nil {
		return warehouse.StockMovement{}, err
	}
	to, err := ParseOptionalID("toZone", r.ToZone)
	if err != nil {
		return warehouse.StockMovement{}, err
	}

	out := warehouse.StockMovement{
		ItemID:         itemID,
		Type:           r.Type,
		Quantity:       r.Quantity,
		FromZone:       from,
		ToZone:         to,
		Cost:           r.Cost,
		Supplier:       r.Supplier,
		DocumentNumber: r.DocumentNumber,
		Reason:         r.Reason,
	}
	if r.Date != nil {
		out.Date = *r.Date
	}
	return out, nil
}

// MovementResponse is a recorded movement with the item balance after it.
type MovementResponse struct {
	Movement warehouse.StockMovement `json:"movement"`
	Item     warehouse.InventoryItem `json:"item"`
}
