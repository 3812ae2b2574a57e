// Package numerator generates sequential document numbers such as
// IN-2026-00001. Counters live behind a Sequencer so the same numbering
// works over PostgreSQL, DynamoDB or process memory.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict reserves one number per call.
	// Sequential numbers without gaps.
	StrategyStrict Strategy = iota

	// StrategyCached reserves ranges of numbers and hands them out from memory.
	// Gaps appear when the process restarts with an unused range.
	StrategyCached
)

const (
	defaultRangeSize = 50
	defaultPadWidth  = 5
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of values reserved at once by StrategyCached.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// ResetPeriod controls when a counter starts again from 1.
type ResetPeriod string

const (
	ResetYearly  ResetPeriod = "year"
	ResetMonthly ResetPeriod = "month"
	ResetNever   ResetPeriod = "never"
)

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "IN", "OUT")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	ResetPeriod ResetPeriod
}

// DefaultConfig returns PREFIX-YEAR-XXXXX numbering reset every year.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    defaultPadWidth,
		ResetPeriod: ResetYearly,
	}
}

// Sequencer stores counters.
type Sequencer interface {
	// Reserve advances the counter for key by n and returns the new value.
	// A missing counter starts at 0.
	Reserve(ctx context.Context, key string, n int64) (int64, error)

	// Set overwrites the counter for key.
	Set(ctx context.Context, key string, value int64) error
}

// Generator issues document numbers.
type Generator interface {
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering over a Sequencer.
type Service struct {
	seq Sequencer

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

var _ Generator = (*Service)(nil)

// New creates a numerator service.
func New(seq Sequencer) *Service {
	return &Service{seq: seq, ranges: make(map[string]*cachedRange)}
}

// GetNextNumber generates the next document number for period.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil || s.seq == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	key := BuildKey(cfg, period)

	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case StrategyCached:
		num, err = s.nextCached(ctx, key, opts.RangeSize)
	default:
		num, err = s.seq.Reserve(ctx, key, 1)
		if err != nil {
			err = fmt.Errorf("strict next: %w", err)
		}
	}
	if err != nil {
		return "", err
	}

	return Format(cfg, period, num), nil
}

func (s *Service) nextCached(ctx context.Context, key string, size int64) (int64, error) {
	if size <= 0 {
		size = defaultRangeSize
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		newMax, err := s.seq.Reserve(ctx, key, size)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}
		// Reserved (newMax-size, newMax].
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber makes the next issued number value+1 and drops any cached range.
func (s *Service) SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error {
	key := BuildKey(cfg, period)
	if err := s.seq.Set(ctx, key, value); err != nil {
		return fmt.Errorf("set sequence %s: %w", key, err)
	}

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()
	return nil
}

// BuildKey creates the counter key for cfg and period.
func BuildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case ResetMonthly:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case ResetYearly:
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// Format renders num according to cfg.
func Format(cfg Config, period time.Time, num int64) string {
	pad := cfg.PadWidth
	if pad == 0 {
		pad = defaultPadWidth
	}
	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), pad, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, pad, num)
}

// ParseNumber extracts the numeric part of a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	tail := formatted[strings.LastIndexByte(formatted, '-')+1:]
	num, err := strconv.ParseInt(tail, 10, 64)
	if err != nil || num < 0 {
		return -1
	}
	return num
}
