package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitalixplus/storefront/pkg/logger"
)

type countingPurger struct {
	calls int
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls++
	return 2, p.err
}

func TestKVPurgeJobThrottlesRuns(t *testing.T) {
	purger := &countingPurger{}
	job, err := NewKVPurgeJob(logger.Nop(), purger, time.Minute)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	job.(*kvPurgeJob).now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := job.Run(ctx); err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if purger.calls != 1 {
		t.Fatalf("expected one purge inside the window, got %d", purger.calls)
	}

	now = now.Add(2 * time.Minute)
	if err := job.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if purger.calls != 2 {
		t.Fatalf("expected purge after the window, got %d", purger.calls)
	}
}

func TestKVPurgeJobRetriesAfterFailure(t *testing.T) {
	purger := &countingPurger{err: errors.New("db down")}
	job, err := NewKVPurgeJob(logger.Nop(), purger, time.Hour)
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected purge error")
	}
	purger.err = nil
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if purger.calls != 2 {
		t.Fatalf("expected a retry on the next tick, got %d calls", purger.calls)
	}
}
