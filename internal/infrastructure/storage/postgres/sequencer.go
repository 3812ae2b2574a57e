package postgres

import (
	"context"
	"fmt"

	"repairdesk/internal/core/apperror"
	"repairdesk/pkg/numerator"
)

var _ numerator.Sequencer = (*Sequencer)(nil)

// Sequencer keeps document counters in sys_sequences.
// Calls join the transaction carried by ctx, if any.
type Sequencer struct {
	txManager *TxManager
}

// NewSequencer creates a sequencer.
func NewSequencer(txManager *TxManager) *Sequencer {
	return &Sequencer{txManager: txManager}
}

// Reserve implements numerator.Sequencer.
func (s *Sequencer) Reserve(ctx context.Context, key string, n int64) (int64, error) {
	var value int64
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET current_value = sys_sequences.current_value + EXCLUDED.current_value,
		    updated_at = now()
		RETURNING current_value
	`, key, n).Scan(&value)
	if err != nil {
		return 0, apperror.NewDatabase(fmt.Errorf("reserve sequence %s: %w", key, err))
	}
	return value, nil
}

// Set implements numerator.Sequencer.
func (s *Sequencer) Set(ctx context.Context, key string, value int64) error {
	_, err := s.txManager.GetQuerier(ctx).Exec(ctx, `
		INSERT INTO sys_sequences (key, current_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET current_value = EXCLUDED.current_value, updated_at = now()
	`, key, value)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("set sequence %s: %w", key, err))
	}
	return nil
}
