package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"repairdesk/internal/infrastructure/storage/postgres"
	"repairdesk/pkg/logger"
)

// Invalidator is notified when records of its kind changed in another process.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func()

// Invalidate implements Invalidator.
func (f InvalidatorFunc) Invalidate() { f() }

const (
	notificationWait = 30 * time.Second
	reconnectDelay   = time.Second
)

// ChangeListener listens on postgres.ChangeChannel and invalidates every
// invalidator registered for the notified kind.
type ChangeListener struct {
	pool *pgxpool.Pool

	mu           sync.RWMutex
	invalidators map[string][]Invalidator

	lifecycleMu sync.Mutex
	started     bool
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewChangeListener creates a listener. pool may be nil when only Dispatch
// is used.
func NewChangeListener(pool *postgres.Pool) *ChangeListener {
	l := &ChangeListener{invalidators: make(map[string][]Invalidator)}
	if pool != nil {
		l.pool = pool.Pool
	}
	return l
}

// Register subscribes inv to changes of kind.
func (l *ChangeListener) Register(kind string, inv Invalidator) {
	l.mu.Lock()
	l.invalidators[kind] = append(l.invalidators[kind], inv)
	l.mu.Unlock()
}

// Start begins listening in the background. Calling Start twice is a no-op.
func (l *ChangeListener) Start(ctx context.Context) error {
	if l.pool == nil {
		return fmt.Errorf("change listener: no pool")
	}

	l.lifecycleMu.Lock()
	defer l.lifecycleMu.Unlock()
	if l.started {
		return nil
	}

	ctx, l.cancel = context.WithCancel(ctx)
	l.started = true

	l.wg.Add(1)
	go l.listenLoop(ctx)
	logger.Info(ctx, "change listener started", "channel", postgres.ChangeChannel)
	return nil
}

// Stop ends listening and waits for the loop to exit.
func (l *ChangeListener) Stop() {
	l.lifecycleMu.Lock()
	if !l.started {
		l.lifecycleMu.Unlock()
		return
	}
	cancel := l.cancel
	l.started = false
	l.cancel = nil
	l.lifecycleMu.Unlock()

	cancel()
	l.wg.Wait()
	logger.Info(context.Background(), "change listener stopped")
}

func (l *ChangeListener) listenLoop(ctx context.Context) {
	defer l.wg.Done()

	for ctx.Err() == nil {
		conn, err := l.pool.Acquire(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error(ctx, "failed to acquire connection for LISTEN", "error", err)
				sleep(ctx, reconnectDelay)
			}
			continue
		}

		if _, err := conn.Exec(ctx, "LISTEN "+postgres.ChangeChannel); err != nil {
			conn.Release()
			if ctx.Err() == nil {
				logger.Error(ctx, "failed to LISTEN", "error", err)
				sleep(ctx, reconnectDelay)
			}
			continue
		}

		l.waitForNotifications(ctx, conn)
		conn.Release()
	}
}

func (l *ChangeListener) waitForNotifications(ctx context.Context, conn *pgxpool.Conn) {
	for {
		waitCtx, cancel := context.WithTimeout(ctx, notificationWait)
		n, err := conn.Conn().WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if waitCtx.Err() != nil {
				continue
			}
			// Broken connection: reacquire.
			logger.Warn(ctx, "notification wait failed", "error", err)
			return
		}

		logger.Debug(ctx, "received notification", "channel", n.Channel, "payload", n.Payload)
		l.Dispatch(ctx, n.Payload)
	}
}

// Dispatch invalidates everything registered for kind. A panicking
// invalidator is logged and does not stop the others.
func (l *ChangeListener) Dispatch(ctx context.Context, kind string) {
	l.mu.RLock()
	targets := l.invalidators[kind]
	l.mu.RUnlock()

	log := logger.FromContext(ctx).WithRecordKind(kind)
	for _, inv := range targets {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorw("invalidator panic recovered", "panic", r)
				}
			}()
			inv.Invalidate()
		}()
	}
	log.Debugw("invalidated snapshots", "count", len(targets))
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
