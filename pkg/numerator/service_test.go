package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var period = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

type failingSequencer struct{}

func (failingSequencer) Reserve(context.Context, string, int64) (int64, error) {
	return 0, errors.New("unavailable")
}

func (failingSequencer) Set(context.Context, string, int64) error {
	return errors.New("unavailable")
}

func TestGetNextNumber_Strict(t *testing.T) {
	seq := NewMemorySequencer()
	svc := New(seq)
	ctx := context.Background()
	cfg := DefaultConfig("IN")

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "IN-2026-00001", num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "IN-2026-00002", num)

	num, err = svc.GetNextNumber(ctx, DefaultConfig("OUT"), nil, period)
	require.NoError(t, err)
	assert.Equal(t, "OUT-2026-00001", num, "prefixes count independently")
}

func TestGetNextNumber_YearlyReset(t *testing.T) {
	svc := New(NewMemorySequencer())
	ctx := context.Background()
	cfg := DefaultConfig("IN")

	_, err := svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "IN-2027-00001", num)
}

func TestGetNextNumber_Cached(t *testing.T) {
	seq := NewMemorySequencer()
	svc := New(seq)
	ctx := context.Background()
	cfg := DefaultConfig("OUT")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}
	key := BuildKey(cfg, period)

	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "OUT-2026-00001", num)
	assert.Equal(t, int64(10), seq.Current(key))

	for i := 0; i < 9; i++ {
		_, err = svc.GetNextNumber(ctx, cfg, opts, period)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(10), seq.Current(key), "range served from memory")

	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "OUT-2026-00011", num)
	assert.Equal(t, int64(20), seq.Current(key))
}

func TestSetNextNumber_InvalidatesCache(t *testing.T) {
	seq := NewMemorySequencer()
	svc := New(seq)
	ctx := context.Background()
	cfg := DefaultConfig("IN")
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	_, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)

	require.NoError(t, svc.SetNextNumber(ctx, cfg, period, 100))

	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "IN-2026-00101", num)
}

func TestGetNextNumber_ConcurrentStrictIsUnique(t *testing.T) {
	svc := New(NewMemorySequencer())
	ctx := context.Background()
	cfg := DefaultConfig("IN")

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg, nil, period)
			assert.NoError(t, err)
			mu.Lock()
			seen[num] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 50)
}

func TestGetNextNumber_SequencerError(t *testing.T) {
	svc := New(failingSequencer{})
	_, err := svc.GetNextNumber(context.Background(), DefaultConfig("IN"), nil, period)
	assert.Error(t, err)

	var nilSvc *Service
	_, err = nilSvc.GetNextNumber(context.Background(), DefaultConfig("IN"), nil, period)
	assert.Error(t, err)
}

func TestFormatAndParse(t *testing.T) {
	cfg := Config{Prefix: "MV", PadWidth: 3, ResetPeriod: ResetNever}
	assert.Equal(t, "MV-007", Format(cfg, period, 7))
	assert.Equal(t, "MV", BuildKey(cfg, period))
	assert.Equal(t, "IN_2026_10", BuildKey(Config{Prefix: "IN", ResetPeriod: ResetMonthly}, period))

	assert.Equal(t, int64(42), ParseNumber("IN-2026-00042"))
	assert.Equal(t, int64(7), ParseNumber("MV-007"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
}
