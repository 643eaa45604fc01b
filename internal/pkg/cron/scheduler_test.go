package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_AddJob_IgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler(context.Background())
	s.AddJob("disabled", 0, 0, func(ctx context.Context) error { return nil })
	s.AddJob("enabled", time.Minute, 0, func(ctx context.Context) error { return nil })

	assert.Equal(t, []string{"enabled"}, s.Jobs())
}

func TestScheduler_RunOnce_RunsEveryJob(t *testing.T) {
	s := NewScheduler(context.Background())
	var calls int32
	s.AddJob("a", time.Minute, 0, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("ignored")
	})
	s.AddJob("b", time.Minute, 0, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, time.Second, func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
