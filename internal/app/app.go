// Package app wires the domain services over a storage backend.
package app

import (
	"net/http"
	"time"

	"repairdesk/internal/domain/clients"
	"repairdesk/internal/domain/dashboard"
	"repairdesk/internal/domain/repairs"
	"repairdesk/internal/domain/technicians"
	"repairdesk/internal/domain/warehouse"
	"repairdesk/internal/infrastructure/cache"
	v1 "repairdesk/internal/infrastructure/http/v1"
	"repairdesk/internal/infrastructure/http/v1/handlers"
	"repairdesk/internal/infrastructure/storage"
	"repairdesk/pkg/logger"
	"repairdesk/pkg/numerator"
)

// Options tune the wired services.
type Options struct {
	// RequireSufficientStock rejects out movements larger than the stock.
	RequireSufficientStock bool

	// Now overrides the clock of every service.
	Now func() time.Time
}

// App holds the services built over one backend.
type App struct {
	Backend  *storage.Backend
	Services v1.Services

	// Analytics memoizes lifetime repair analytics per store version.
	Analytics *cache.SnapshotMemo[repairs.Analytics]
}

// New builds every service over b. When b relays remote changes the
// analytics memo is dropped on repair notifications.
func New(b *storage.Backend, opts Options) *App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	memo := cache.NewSnapshotMemo[repairs.Analytics]()
	if b.Listener != nil {
		b.Listener.Register(repairs.Kind, memo)
	}

	clientSvc := clients.NewService(b.Clients, now)
	techSvc := technicians.NewService(b.Technicians, technicians.RepairSourceFunc(b.Repairs.GetAll), now)
	repairSvc := repairs.NewService(b.Repairs, clientSvc, techSvc,
		repairs.WithClock(now),
		repairs.WithAnalyticsMemo(memo),
	)

	ledger := warehouse.NewLedger(b.Items, b.Movements, b.TxManager, warehouse.LedgerConfig{
		RequireSufficientStock: opts.RequireSufficientStock,
	})
	warehouseSvc := warehouse.NewService(warehouse.Stores{
		Items:     b.Items,
		Zones:     b.Zones,
		Movements: b.Movements,
	}, ledger, numerator.New(b.Sequencer), now)

	dashboardSvc := dashboard.NewService(dashboard.Sources{
		Repairs:     repairSvc.Snapshot,
		Clients:     b.Clients.GetAll,
		Technicians: techSvc.Roster,
		Inventory:   b.Items.GetAll,
	}, now)

	return &App{
		Backend: b,
		Services: v1.Services{
			Repairs:     repairSvc,
			Technicians: techSvc,
			Clients:     clientSvc,
			Warehouse:   warehouseSvc,
			Dashboard:   dashboardSvc,
		},
		Analytics: memo,
	}
}

// Handler builds the HTTP API over the app's services.
func (a *App) Handler(log *logger.Logger, debug bool) (http.Handler, error) {
	checks := make(map[string]handlers.Pinger, len(a.Backend.Checks))
	for name, check := range a.Backend.Checks {
		checks[name] = handlers.PingFunc(check)
	}
	return v1.NewHandler(v1.RouterConfig{
		Services:     a.Services,
		Logger:       log,
		Idempotency:  a.Backend.Idempotency,
		Backend:      a.Backend.Name,
		HealthChecks: checks,
		Debug:        debug,
	})
}
