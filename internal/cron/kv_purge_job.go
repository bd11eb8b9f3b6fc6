package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalixplus/storefront/pkg/logger"
)

const defaultPurgeEvery = 10 * time.Minute

type expiredPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// NewKVPurgeJob removes expired carts and sessions from the SQL store. Redis
// expires keys on its own, so the job is only registered for the sql driver.
// It piggybacks on the watcher tick but runs at most once per every.
func NewKVPurgeJob(logg *logger.Logger, store expiredPurger, every time.Duration) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if store == nil {
		return nil, fmt.Errorf("sql store required")
	}
	if every <= 0 {
		every = defaultPurgeEvery
	}
	return &kvPurgeJob{logg: logg, store: store, every: every, now: time.Now}, nil
}

type kvPurgeJob struct {
	logg    *logger.Logger
	store   expiredPurger
	every   time.Duration
	lastRun time.Time
	now     func() time.Time
}

func (j *kvPurgeJob) Name() string { return "kv_purge" }

func (j *kvPurgeJob) Run(ctx context.Context) error {
	now := j.now()
	if !j.lastRun.IsZero() && now.Sub(j.lastRun) < j.every {
		return nil
	}
	removed, err := j.store.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired entries: %w", err)
	}
	j.lastRun = now
	if removed > 0 {
		j.logg.Info(j.logg.WithField(ctx, "removed", removed), "watcher.kv_purge.completed")
	}
	return nil
}
