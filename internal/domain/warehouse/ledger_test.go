package warehouse_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/core/apperror"
	"repairdesk/internal/core/id"
	"repairdesk/internal/core/types"
	"repairdesk/internal/domain"
	"repairdesk/internal/domain/warehouse"
	"repairdesk/internal/infrastructure/storage/memory"
)

var day = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func screen(qty int64) warehouse.InventoryItem {
	return warehouse.InventoryItem{
		ID:          id.New(),
		Name:        "iPhone 13 screen",
		Unit:        "pcs",
		Quantity:    qty,
		MinQuantity: 3,
		Price:       types.MustMoney("89.90"),
	}
}

func movement(item warehouse.InventoryItem, t warehouse.MovementType, qty int64) warehouse.StockMovement {
	return warehouse.StockMovement{
		ItemID:   item.ID,
		Type:     t,
		Quantity: qty,
		Cost:     types.MustMoney("50"),
		Date:     day,
	}
}

func TestApplyMovement(t *testing.T) {
	item := screen(10)

	tests := []struct {
		name string
		t    warehouse.MovementType
		qty  int64
		want int64
	}{
		{"in", warehouse.MovementIn, 5, 15},
		{"out", warehouse.MovementOut, 5, 5},
		{"out beyond stock", warehouse.MovementOut, 20, -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := warehouse.ApplyMovement(item, movement(item, tt.t, tt.qty))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyMovement_Rejects(t *testing.T) {
	item := screen(10)

	_, err := warehouse.ApplyMovement(item, movement(item, warehouse.MovementIn, 0))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidMovement))

	_, err = warehouse.ApplyMovement(item, movement(item, warehouse.MovementOut, -2))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidMovement))

	_, err = warehouse.ApplyMovement(item, movement(item, "transfer", 1))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidMovement))

	_, err = warehouse.ApplyMovement(item, movement(screen(1), warehouse.MovementIn, 1))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidMovement))
}

type ledgerFixture struct {
	items     *memory.Store[warehouse.InventoryItem]
	movements *memory.Store[warehouse.StockMovement]
	item      warehouse.InventoryItem
}

func newLedgerFixture(qty int64) ledgerFixture {
	item := screen(qty)
	return ledgerFixture{
		items:     memory.NewWith(warehouse.ItemKind, item),
		movements: memory.New[warehouse.StockMovement](warehouse.MovementKind),
		item:      item,
	}
}

func (f ledgerFixture) quantity(t *testing.T) int64 {
	t.Helper()
	items, err := f.items.GetAll(context.Background())
	require.NoError(t, err)
	got, ok := domain.FindByID(items, f.item.ID)
	require.True(t, ok)
	return got.Quantity
}

func TestLedger_RecordUpdatesItem(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(10)
	ledger := warehouse.NewLedger(f.items, f.movements, nil, warehouse.LedgerConfig{})

	created, item, err := ledger.Record(ctx, movement(f.item, warehouse.MovementIn, 5))
	require.NoError(t, err)
	assert.False(t, id.IsNil(created.ID))
	assert.Equal(t, "iPhone 13 screen", created.ItemName)
	assert.Equal(t, int64(15), item.Quantity)
	assert.Equal(t, int64(15), f.quantity(t))

	_, item, err = ledger.Record(ctx, movement(f.item, warehouse.MovementOut, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(-5), item.Quantity)
	assert.Equal(t, int64(-5), f.quantity(t))
	assert.Equal(t, 2, f.movements.Len())
}

func TestLedger_RejectsWithoutWriting(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(10)
	ledger := warehouse.NewLedger(f.items, f.movements, nil, warehouse.LedgerConfig{})

	_, _, err := ledger.Record(ctx, movement(f.item, warehouse.MovementIn, 0))
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidMovement))

	_, _, err = ledger.Record(ctx, movement(screen(0), warehouse.MovementIn, 1))
	assert.True(t, apperror.IsNotFound(err))

	assert.Equal(t, 0, f.movements.Len())
	assert.Equal(t, int64(10), f.quantity(t))
}

func TestLedger_RequireSufficientStock(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(3)
	ledger := warehouse.NewLedger(f.items, f.movements, nil, warehouse.LedgerConfig{RequireSufficientStock: true})

	_, _, err := ledger.Record(ctx, movement(f.item, warehouse.MovementOut, 4))
	require.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, int64(4), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])
	assert.Equal(t, 0, f.movements.Len())

	_, item, err := ledger.Record(ctx, movement(f.item, warehouse.MovementOut, 3))
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity)
}

type brokenItems struct {
	*memory.Store[warehouse.InventoryItem]
}

func (brokenItems) Update(context.Context, id.ID, domain.Patch[warehouse.InventoryItem]) error {
	return errors.New("disk full")
}

func TestLedger_CompensatesFailedItemUpdate(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(10)
	ledger := warehouse.NewLedger(brokenItems{f.items}, f.movements, nil, warehouse.LedgerConfig{})

	_, _, err := ledger.Record(ctx, movement(f.item, warehouse.MovementIn, 5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 0, f.movements.Len())
	assert.Equal(t, int64(10), f.quantity(t))
}
