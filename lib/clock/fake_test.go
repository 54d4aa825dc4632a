// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowAdvance(t *testing.T) {
	clk := Fake(epoch)
	if !clk.Now().Equal(epoch) {
		t.Errorf("Now() = %v, want %v", clk.Now(), epoch)
	}
	clk.Advance(90 * time.Second)
	want := epoch.Add(90 * time.Second)
	if !clk.Now().Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", clk.Now(), want)
	}
}

func TestFakeAfterFiresInDeadlineOrder(t *testing.T) {
	clk := Fake(epoch)

	late := clk.After(2 * time.Minute)
	early := clk.After(1 * time.Minute)

	clk.Advance(3 * time.Minute)

	earlyAt := <-early
	lateAt := <-late
	if !earlyAt.Equal(epoch.Add(1 * time.Minute)) {
		t.Errorf("early fired at %v, want %v", earlyAt, epoch.Add(1*time.Minute))
	}
	if !lateAt.Equal(epoch.Add(2 * time.Minute)) {
		t.Errorf("late fired at %v, want %v", lateAt, epoch.Add(2*time.Minute))
	}
}

func TestFakeAfterImmediateForNonPositive(t *testing.T) {
	clk := Fake(epoch)
	select {
	case <-clk.After(0):
	default:
		t.Error("After(0) did not fire immediately")
	}
}

func TestFakeAfterFuncStop(t *testing.T) {
	clk := Fake(epoch)

	fired := false
	timer := clk.AfterFunc(time.Minute, func() { fired = true })
	if !timer.Stop() {
		t.Error("Stop() = false for pending timer")
	}
	clk.Advance(2 * time.Minute)
	if fired {
		t.Error("stopped AfterFunc still fired")
	}
	if timer.Stop() {
		t.Error("second Stop() = true, want false")
	}
}

func TestFakeTicker(t *testing.T) {
	clk := Fake(epoch)
	ticker := clk.NewTicker(time.Second)
	defer ticker.Stop()

	clk.Advance(time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("no tick after one interval")
	}

	// Two intervals with a 1-slot buffer: a single tick survives.
	clk.Advance(2 * time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("no tick after two further intervals")
	}

	ticker.Stop()
	clk.Advance(time.Minute)
	select {
	case <-ticker.C:
		t.Error("tick after Stop")
	default:
	}
}
