// Package storage opens the configured record backend and exposes one
// store per record kind.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"repairdesk/internal/core/tx"
	"repairdesk/internal/domain"
	"repairdesk/internal/domain/clients"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/domain/warehouse"
	"repairdesk/internal/infrastructure/cache"
	"repairdesk/internal/infrastructure/idempotency"
	"repairdesk/internal/infrastructure/storage/dynamo"
	"repairdesk/internal/infrastructure/storage/memory"
	"repairdesk/internal/infrastructure/storage/postgres"
	"repairdesk/pkg/logger"
	"repairdesk/pkg/numerator"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendDynamo   = "dynamodb"
)

// Config selects and configures the backend.
type Config struct {
	Backend string

	// PostgreSQL
	DatabaseURL string
	MaxConns    int32

	// DynamoDB
	Dynamo            dynamo.ClientConfig
	DynamoTable       string
	CompressThreshold int

	IdempotencyTTL time.Duration
}

// Backend holds the stores of every record kind.
type Backend struct {
	Name string

	Repairs     domain.RecordStore[repairs.Repair]
	Clients     domain.RecordStore[clients.Client]
	Technicians domain.RecordStore[technicians.Technician]
	Items       domain.RecordStore[warehouse.InventoryItem]
	Zones       domain.RecordStore[warehouse.Zone]
	Movements   domain.RecordStore[warehouse.StockMovement]

	Sequencer   numerator.Sequencer
	Idempotency idempotency.Store

	// TxManager is nil for backends whose writes are atomic per call.
	TxManager tx.Manager

	// Listener relays changes made by other instances. Nil unless postgres.
	Listener *cache.ChangeListener

	// Checks are pinged by the readiness probe.
	Checks map[string]func(ctx context.Context) error

	closers []func()
}

// Close releases backend resources in reverse order of acquisition.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// Open connects to the configured backend, creating its schema when missing.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}

	var (
		b   *Backend
		err error
	)
	switch cfg.Backend {
	case "", BackendMemory:
		b = OpenMemory(cfg.IdempotencyTTL)
	case BackendPostgres:
		b, err = openPostgres(ctx, cfg)
	case BackendDynamo:
		b, err = openDynamo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "store backend ready", "backend", b.Name)
	return b, nil
}

// OpenMemory creates empty in-process stores.
func OpenMemory(idempotencyTTL time.Duration) *Backend {
	return &Backend{
		Name:        BackendMemory,
		Repairs:     memory.New[repairs.Repair](repairs.Kind),
		Clients:     memory.New[clients.Client](clients.Kind),
		Technicians: memory.New[technicians.Technician](technicians.Kind),
		Items:       memory.New[warehouse.InventoryItem](warehouse.ItemKind),
		Zones:       memory.New[warehouse.Zone](warehouse.ZoneKind),
		Movements:   memory.New[warehouse.StockMovement](warehouse.MovementKind),
		Sequencer:   numerator.NewMemorySequencer(),
		Idempotency: idempotency.NewMemoryStore(idempotencyTTL),
		Checks:      map[string]func(context.Context) error{},
	}
}

func openPostgres(ctx context.Context, cfg Config) (*Backend, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	txm := postgres.NewTxManager(pool)
	listener := cache.NewChangeListener(pool)

	repairStore := postgres.NewRecordStore[repairs.Repair](repairs.Kind, txm)
	clientStore := postgres.NewRecordStore[clients.Client](clients.Kind, txm)
	techStore := postgres.NewRecordStore[technicians.Technician](technicians.Kind, txm)
	itemStore := postgres.NewRecordStore[warehouse.InventoryItem](warehouse.ItemKind, txm)
	zoneStore := postgres.NewRecordStore[warehouse.Zone](warehouse.ZoneKind, txm)
	movementStore := postgres.NewRecordStore[warehouse.StockMovement](warehouse.MovementKind, txm)

	listener.Register(repairs.Kind, repairStore)
	listener.Register(clients.Kind, clientStore)
	listener.Register(technicians.Kind, techStore)
	listener.Register(warehouse.ItemKind, itemStore)
	listener.Register(warehouse.ZoneKind, zoneStore)
	listener.Register(warehouse.MovementKind, movementStore)

	return &Backend{
		Name:        BackendPostgres,
		Repairs:     repairStore,
		Clients:     clientStore,
		Technicians: techStore,
		Items:       itemStore,
		Zones:       zoneStore,
		Movements:   movementStore,
		Sequencer:   postgres.NewSequencer(txm),
		Idempotency: postgres.NewIdempotencyStore(txm, cfg.IdempotencyTTL),
		TxManager:   txm,
		Listener:    listener,
		Checks: map[string]func(context.Context) error{
			"database": pool.Ping,
		},
		closers: []func(){pool.Close, listener.Stop},
	}, nil
}

func openDynamo(ctx context.Context, cfg Config) (*Backend, error) {
	client, err := dynamo.NewClient(ctx, cfg.Dynamo)
	if err != nil {
		return nil, err
	}

	var opts []dynamo.TableOption
	if cfg.CompressThreshold > 0 {
		opts = append(opts, dynamo.WithCompressThreshold(cfg.CompressThreshold))
	}
	table, err := dynamo.NewTable(client, cfg.DynamoTable, opts...)
	if err != nil {
		return nil, err
	}
	if err := table.EnsureTable(ctx); err != nil {
		return nil, err
	}

	return &Backend{
		Name:        BackendDynamo,
		Repairs:     dynamo.NewRecordStore[repairs.Repair](table, repairs.Kind),
		Clients:     dynamo.NewRecordStore[clients.Client](table, clients.Kind),
		Technicians: dynamo.NewRecordStore[technicians.Technician](table, technicians.Kind),
		Items:       dynamo.NewRecordStore[warehouse.InventoryItem](table, warehouse.ItemKind),
		Zones:       dynamo.NewRecordStore[warehouse.Zone](table, warehouse.ZoneKind),
		Movements:   dynamo.NewRecordStore[warehouse.StockMovement](table, warehouse.MovementKind),
		Sequencer:   dynamo.NewSequencer(table),
		// Keys are per instance; DynamoDB has no shared idempotency table.
		Idempotency: idempotency.NewMemoryStore(cfg.IdempotencyTTL),
		Checks: map[string]func(context.Context) error{
			"dynamodb": func(ctx context.Context) error {
				_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table.Name())})
				return err
			},
		},
	}, nil
}
