package services

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var current, stale int32

	for i := 0; i < 5; i++ {
		d.Trigger(func(gen uint64) {
			if d.Current(gen) {
				atomic.AddInt32(&current, 1)
			} else {
				atomic.AddInt32(&stale, 1)
			}
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&current); got != 1 {
		t.Errorf("rapid triggers dispatched %d current runs, want 1", got)
	}
	if got := atomic.LoadInt32(&stale); got != 4 {
		t.Errorf("superseded triggers released %d times, want 4", got)
	}
}

func TestDebouncerGenerationSupersedes(t *testing.T) {
	d := NewDebouncer(0)
	done := make(chan uint64, 2)

	d.Trigger(func(gen uint64) { done <- gen })
	first := <-done
	d.Trigger(func(gen uint64) { done <- gen })
	second := <-done

	if d.Current(first) {
		t.Error("superseded generation must not be current")
	}
	if !d.Current(second) {
		t.Error("latest generation must be current")
	}
}

// A superseded pending trigger must still run, promptly and under a stale
// generation, so a caller blocked on its completion is never stranded.
func TestDebouncerSupersededTriggerReleased(t *testing.T) {
	d := NewDebouncer(time.Hour)
	released := make(chan uint64, 1)

	d.Trigger(func(gen uint64) { released <- gen })
	d.Trigger(func(gen uint64) {})

	select {
	case gen := <-released:
		if d.Current(gen) {
			t.Error("superseded trigger must run under a stale generation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded trigger was never released")
	}
}

// Cancel releases a pending trigger the same way: it runs once, stale.
func TestDebouncerCancelReleasesPending(t *testing.T) {
	d := NewDebouncer(time.Hour)
	released := make(chan uint64, 1)

	d.Trigger(func(gen uint64) { released <- gen })
	d.Cancel()

	select {
	case gen := <-released:
		if d.Current(gen) {
			t.Error("cancelled trigger must run under a stale generation")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled trigger was never released")
	}
}

func TestDebouncerCancelMarksInFlightStale(t *testing.T) {
	d := NewDebouncer(0)
	done := make(chan uint64, 1)

	d.Trigger(func(gen uint64) { done <- gen })
	gen := <-done
	d.Cancel()

	if d.Current(gen) {
		t.Error("cancel must mark the in-flight generation stale")
	}
}
