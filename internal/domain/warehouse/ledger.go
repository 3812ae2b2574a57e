package warehouse

import (
	"context"
	"fmt"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/tx"
	"repairdesk/internal/domain"
	"repairdesk/pkg/logger"
)

// ApplyMovement returns the item quantity after m. The result may be
// negative: an out movement larger than the stock is not rejected here.
//
// A movement with a non-positive quantity, an unknown type or another
// item's id is rejected.
func ApplyMovement(item InventoryItem, m StockMovement) (int64, error) {
	if m.ItemID != item.ID {
		return 0, apperror.NewInvalidMovement("movement does not reference this item").
			WithDetail("item_id", item.ID).
			WithDetail("movement_item_id", m.ItemID)
	}
	if !m.Type.Valid() {
		return 0, apperror.NewInvalidMovement("movement type must be in or out").
			WithDetail("value", m.Type)
	}
	if m.Quantity <= 0 {
		return 0, apperror.NewInvalidMovement("quantity must be greater than 0").
			WithDetail("value", m.Quantity)
	}
	return item.Quantity + m.Delta(), nil
}

// LedgerConfig holds optional ledger guards.
type LedgerConfig struct {
	// RequireSufficientStock rejects out movements larger than the stock.
	RequireSufficientStock bool
}

// Ledger records stock movements and keeps item quantities in step.
type Ledger struct {
	items     domain.RecordStore[InventoryItem]
	movements domain.RecordStore[StockMovement]
	txManager tx.Manager
	cfg       LedgerConfig

	// compensate deletes the movement again if the item update fails.
	// Set when there is no transaction manager to roll back for us.
	compensate bool
}

// NewLedger creates a ledger. txManager may be nil for stores that apply
// each call atomically on their own.
func NewLedger(items domain.RecordStore[InventoryItem], movements domain.RecordStore[StockMovement], txManager tx.Manager, cfg LedgerConfig) *Ledger {
	l := &Ledger{items: items, movements: movements, txManager: txManager, cfg: cfg}
	if txManager == nil {
		l.txManager = tx.None
		l.compensate = true
	}
	return l
}

// Record validates m against a fresh item snapshot, stores it and applies
// its quantity to the item. Nothing is written when validation fails.
func (l *Ledger) Record(ctx context.Context, m StockMovement) (StockMovement, InventoryItem, error) {
	if err := m.Validate(ctx); err != nil {
		return StockMovement{}, InventoryItem{}, err
	}

	items, err := l.items.GetAll(ctx)
	if err != nil {
		return StockMovement{}, InventoryItem{}, fmt.Errorf("load inventory: %w", err)
	}
	item, ok := domain.FindByID(items, m.ItemID)
	if !ok {
		return StockMovement{}, InventoryItem{}, apperror.NewNotFound("inventory item", m.ItemID)
	}

	next, err := ApplyMovement(item, m)
	if err != nil {
		return StockMovement{}, InventoryItem{}, err
	}
	if l.cfg.RequireSufficientStock && m.Type == MovementOut && m.Quantity > item.Quantity {
		return StockMovement{}, InventoryItem{}, apperror.NewInsufficientStock(item.ID.String(), m.Quantity, item.Quantity)
	}

	m.ItemName = item.Name

	var created StockMovement
	err = l.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = l.movements.Create(ctx, m)
		if err != nil {
			return fmt.Errorf("create movement: %w", err)
		}

		delta := m.Delta()
		err = l.items.Update(ctx, item.ID, func(stored *InventoryItem) {
			stored.Quantity += delta
		})
		if err == nil {
			return nil
		}

		if l.compensate {
			if derr := l.movements.Delete(ctx, created.ID); derr != nil {
				logger.Error(ctx, "failed to compensate stock movement",
					"movement_id", created.ID, "error", derr)
			}
		}
		return fmt.Errorf("apply movement to item: %w", err)
	})
	if err != nil {
		return StockMovement{}, InventoryItem{}, err
	}

	item.Quantity = next
	logger.Info(ctx, "recorded stock movement",
		"movement_id", created.ID,
		"item_id", item.ID,
		"type", m.Type,
		"quantity", m.Quantity,
		"balance", next)

	return created, item, nil
}
