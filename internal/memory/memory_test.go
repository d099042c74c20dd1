package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"project-gallery/internal/metrics"
)

func newTestMonitor(limit int64, alloc *uint64) *Monitor {
	m := NewMonitor(Config{
		LimitBytes:        limit,
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     10 * time.Millisecond,
	})
	m.readAlloc = func() uint64 { return *alloc }
	return m
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HighWaterMark >= cfg.CriticalWaterMark {
		t.Errorf("HighWaterMark %v should be below CriticalWaterMark %v", cfg.HighWaterMark, cfg.CriticalWaterMark)
	}
	if cfg.CheckInterval <= 0 {
		t.Errorf("CheckInterval = %v, want positive", cfg.CheckInterval)
	}
}

func TestNewMonitor_ZeroIntervalUsesDefault(t *testing.T) {
	m := NewMonitor(Config{LimitBytes: 100})
	if m.config.CheckInterval != DefaultConfig().CheckInterval {
		t.Errorf("CheckInterval = %v, want default", m.config.CheckInterval)
	}
	if m.Limit() != 100 {
		t.Errorf("Limit() = %d, want 100", m.Limit())
	}
}

func TestMonitor_PauseAndResume(t *testing.T) {
	alloc := uint64(50)
	m := newTestMonitor(100, &alloc)
	pausesBefore := testutil.ToFloat64(metrics.MemoryGCPauses)

	m.check()
	if m.IsPaused() {
		t.Fatal("paused at 50% usage")
	}
	if got := m.Usage(); got != 0.5 {
		t.Errorf("Usage() = %v, want 0.5", got)
	}

	alloc = 90
	m.check()
	if !m.IsPaused() {
		t.Fatal("not paused at 90% usage")
	}
	if got := testutil.ToFloat64(metrics.MemoryPaused); got != 1 {
		t.Errorf("memory_paused = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.MemoryGCPauses) - pausesBefore; got != 1 {
		t.Errorf("gc pauses increased by %v, want 1", got)
	}

	// Between the marks the state holds.
	alloc = 80
	m.check()
	if !m.IsPaused() {
		t.Fatal("resumed above the high water mark")
	}

	done := make(chan error, 1)
	go func() { done <- m.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("Wait returned while paused")
	case <-time.After(20 * time.Millisecond):
	}

	alloc = 10
	m.check()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Wait() = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after resume")
	}
	if m.IsPaused() {
		t.Error("still paused after usage dropped")
	}
	if got := testutil.ToFloat64(metrics.MemoryPaused); got != 0 {
		t.Errorf("memory_paused = %v, want 0", got)
	}
}

func TestMonitor_WaitHonoursContext(t *testing.T) {
	alloc := uint64(99)
	m := newTestMonitor(100, &alloc)
	m.check()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := m.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want deadline exceeded", err)
	}
}

func TestMonitor_StopReleasesWaiters(t *testing.T) {
	alloc := uint64(99)
	m := newTestMonitor(100, &alloc)
	m.check()

	m.Stop()
	m.Stop()

	if err := m.Wait(context.Background()); err != nil {
		t.Errorf("Wait() after Stop = %v, want nil", err)
	}
}

func TestMonitor_StartSamples(t *testing.T) {
	alloc := uint64(95)
	m := newTestMonitor(100, &alloc)
	m.Start()
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for !m.IsPaused() {
		if time.Now().After(deadline) {
			t.Fatal("monitor never sampled usage")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMonitor_NoLimitNeverPauses(t *testing.T) {
	alloc := uint64(1 << 40)
	m := newTestMonitor(0, &alloc)
	m.limit = 0

	m.check()

	if m.IsPaused() {
		t.Error("paused without a limit")
	}
	if m.Usage() != 0 {
		t.Errorf("Usage() = %v, want 0", m.Usage())
	}
	if err := m.Wait(context.Background()); err != nil {
		t.Errorf("Wait() = %v", err)
	}
}
