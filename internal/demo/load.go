package demo

import (
	"context"
	"fmt"
	"time"

	"repairdesk/internal/core/entity"
	"repairdesk/internal/domain"
	"repairdesk/internal/domain/warehouse"
	"repairdesk/internal/infrastructure/storage"
	"repairdesk/pkg/logger"
	"repairdesk/pkg/numerator"
)

// Report counts the records loaded per kind. Kinds that already held data
// are listed in Skipped.
type Report struct {
	Loaded  map[string]int64
	Skipped []string
}

// Load imports set into b. A kind whose store is not empty is left alone,
// so loading twice is harmless. Movement number counters are advanced past
// the imported document numbers.
func Load(ctx context.Context, b *storage.Backend, set Set) (Report, error) {
	if err := set.Validate(ctx); err != nil {
		return Report{}, fmt.Errorf("demo set: %w", err)
	}

	rep := Report{Loaded: make(map[string]int64)}
	steps := []func(ctx context.Context) error{
		func(ctx context.Context) error { return importKind(ctx, &rep, "clients", b.Clients, set.Clients) },
		func(ctx context.Context) error { return importKind(ctx, &rep, "technicians", b.Technicians, set.Technicians) },
		func(ctx context.Context) error { return importKind(ctx, &rep, "repairs", b.Repairs, set.Repairs) },
		func(ctx context.Context) error { return importKind(ctx, &rep, "inventory", b.Items, set.Items) },
		func(ctx context.Context) error { return importKind(ctx, &rep, "zones", b.Zones, set.Zones) },
		func(ctx context.Context) error { return importKind(ctx, &rep, "movements", b.Movements, set.Movements) },
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return rep, err
		}
	}

	if rep.Loaded["movements"] > 0 && b.Sequencer != nil {
		if err := advanceNumbers(ctx, numerator.New(b.Sequencer), set.Movements); err != nil {
			return rep, err
		}
	}

	logger.Info(ctx, "demo data loaded", "loaded", rep.Loaded, "skipped", rep.Skipped)
	return rep, nil
}

func importKind[T entity.Record[T]](ctx context.Context, rep *Report, name string, store domain.RecordStore[T], records []T) error {
	existing, err := store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(existing) > 0 {
		rep.Skipped = append(rep.Skipped, name)
		return nil
	}

	importer, ok := store.(domain.Importer[T])
	if !ok {
		return fmt.Errorf("%s store does not support import", name)
	}
	n, err := importer.Import(ctx, records)
	if err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}
	rep.Loaded[name] = n
	return nil
}

// advanceNumbers makes the next generated number follow the highest
// imported one for every prefix and year.
func advanceNumbers(ctx context.Context, numbers *numerator.Service, movements []warehouse.StockMovement) error {
	type counter struct {
		cfg    numerator.Config
		period time.Time
		max    int64
	}
	counters := make(map[string]*counter)
	for _, m := range movements {
		cfg := numerator.DefaultConfig(warehouse.InPrefix)
		if m.Type == warehouse.MovementOut {
			cfg = numerator.DefaultConfig(warehouse.OutPrefix)
		}
		n := numerator.ParseNumber(m.DocumentNumber)
		if n <= 0 {
			continue
		}
		key := numerator.BuildKey(cfg, m.Date)
		c, ok := counters[key]
		if !ok {
			c = &counter{cfg: cfg, period: m.Date}
			counters[key] = c
		}
		if n > c.max {
			c.max = n
		}
	}

	for key, c := range counters {
		if err := numbers.SetNextNumber(ctx, c.cfg, c.period, c.max); err != nil {
			return fmt.Errorf("advance %s: %w", key, err)
		}
	}
	return nil
}
