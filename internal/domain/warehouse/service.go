package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"repairdesk/internal/core/entity"
	"repairdesk/internal/core/id"
	"repairdesk/internal/domain"
	"repairdesk/pkg/logger"
	"repairdesk/pkg/numerator"
)

// Document number prefixes per movement type.
const (
	InPrefix  = "IN"
	OutPrefix = "OUT"
)

// Stores groups the warehouse stores.
type Stores struct {
	Items     domain.RecordStore[InventoryItem]
	Zones     domain.RecordStore[Zone]
	Movements domain.RecordStore[StockMovement]
}

// Service provides inventory, zone and movement operations.
type Service struct {
	stores  Stores
	ledger  *Ledger
	numbers numerator.Generator // Optional.
	now     func() time.Time
}

// NewService creates a warehouse service. numbers may be nil, in which case
// movements keep whatever document number they were given.
func NewService(stores Stores, ledger *Ledger, numbers numerator.Generator, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{stores: stores, ledger: ledger, numbers: numbers, now: now}
}

// --- Inventory ---

// Items returns every inventory item.
func (s *Service) Items(ctx context.Context) ([]InventoryItem, error) {
	items, err := s.stores.Items.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

// CreateItem adds an inventory item with a non-negative opening quantity.
func (s *Service) CreateItem(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(ctx); err != nil {
		return InventoryItem{}, err
	}
	if err := entity.RequireNonNegative("quantity", item.Quantity); err != nil {
		return InventoryItem{}, err
	}

	created, err := s.stores.Items.Create(ctx, item)
	if err != nil {
		return InventoryItem{}, fmt.Errorf("create inventory item: %w", err)
	}
	logger.Info(ctx, "inventory item created", "id", created.ID, "quantity", created.Quantity)
	return created, nil
}

// --- Zones ---

// Zones returns every zone with its utilization.
func (s *Service) Zones(ctx context.Context) ([]ZoneStatus, error) {
	zones, err := s.stores.Zones.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return TrackZones(zones), nil
}

// CreateZone adds a zone.
func (s *Service) CreateZone(ctx context.Context, z Zone) (ZoneStatus, error) {
	z.Name = strings.TrimSpace(z.Name)
	if err := z.Validate(ctx); err != nil {
		return ZoneStatus{}, err
	}
	created, err := s.stores.Zones.Create(ctx, z)
	if err != nil {
		return ZoneStatus{}, fmt.Errorf("create zone: %w", err)
	}
	logger.Info(ctx, "zone created", "id", created.ID, "capacity", created.Capacity)
	return TrackZones([]Zone{created})[0], nil
}

// UpdateZone replaces every field of a zone but its id.
func (s *Service) UpdateZone(ctx context.Context, zoneID id.ID, edit Zone) (ZoneStatus, error) {
	edit.Name = strings.TrimSpace(edit.Name)
	edit = edit.WithID(zoneID)
	if err := edit.Validate(ctx); err != nil {
		return ZoneStatus{}, err
	}

	err := s.stores.Zones.Update(ctx, zoneID, func(stored *Zone) {
		*stored = edit.Clone()
	})
	if err != nil {
		return ZoneStatus{}, fmt.Errorf("update zone: %w", err)
	}

	status := TrackZones([]Zone{edit})[0]
	if status.Band == BandCritical {
		logger.Warn(ctx, "zone utilization critical", "id", zoneID, "utilization", status.Utilization)
	}
	return status, nil
}

// DeleteZone removes a zone. Movements referencing it keep the reference.
func (s *Service) DeleteZone(ctx context.Context, zoneID id.ID) error {
	if err := s.stores.Zones.Delete(ctx, zoneID); err != nil {
		return fmt.Errorf("delete zone: %w", err)
	}
	logger.Info(ctx, "zone deleted", "id", zoneID)
	return nil
}

// --- Movements ---

// Movements returns the journal entries matching f in journal order.
func (s *Service) Movements(ctx context.Context, f MovementFilter) ([]StockMovement, error) {
	all, err := s.stores.Movements.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return FilterMovements(all, f), nil
}

// RecordMovement stamps the date and document number when missing and
// passes the movement to the ledger. It returns the stored movement and
// the item as updated.
func (s *Service) RecordMovement(ctx context.Context, m StockMovement) (StockMovement, InventoryItem, error) {
	if m.Date.IsZero() {
		m.Date = s.now()
	}
	m.DocumentNumber = strings.TrimSpace(m.DocumentNumber)

	// Reject before a number is consumed.
	if err := m.Validate(ctx); err != nil {
		return StockMovement{}, InventoryItem{}, err
	}

	if m.DocumentNumber == "" && s.numbers != nil {
		prefix := InPrefix
		if m.Type == MovementOut {
			prefix = OutPrefix
		}
		num, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig(prefix), nil, m.Date)
		if err != nil {
			return StockMovement{}, InventoryItem{}, fmt.Errorf("number movement: %w", err)
		}
		m.DocumentNumber = num
	}

	return s.ledger.Record(ctx, m)
}

// DeleteMovement removes a journal entry. The item quantity is not reverted.
func (s *Service) DeleteMovement(ctx context.Context, movementID id.ID) error {
	if err := s.stores.Movements.Delete(ctx, movementID); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	logger.Info(ctx, "stock movement deleted", "id", movementID)
	return nil
}

// Summary is the warehouse overview.
type Summary struct {
	Capacity  CapacitySummary `json:"capacity"`
	Movements MovementSummary `json:"movements"`
	LowStock  int             `json:"lowStock"`
}

// Summary aggregates zones, the journal filtered by f, and inventory.
func (s *Service) Summary(ctx context.Context, f MovementFilter) (Summary, error) {
	zones, err := s.stores.Zones.GetAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list zones: %w", err)
	}
	movements, err := s.stores.Movements.GetAll(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list movements: %w", err)
	}
	items, err := s.Items(ctx)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Capacity:  SummarizeCapacity(zones),
		Movements: Summarize(movements, f),
		LowStock:  len(LowStock(items)),
	}, nil
}
