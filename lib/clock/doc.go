// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock interface parameter instead of calling
// time.Now, time.After, time.NewTicker, or time.AfterFunc directly. In
// production, Real() provides the standard library behavior. In tests,
// Fake() provides a deterministic clock that advances only when Advance
// is called.
//
// Add a Clock field to structs that use time:
//
//	type Coordinator struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	c := &Coordinator{clock: clock.Real()}
//
// In tests:
//
//	clk := clock.Fake(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
//	c := &Coordinator{clock: clk}
//	clk.Advance(5 * time.Second)
//
// Claim timestamps, credential expiry checks, and connection
// heartbeats all flow through this package so that tests never sleep.
package clock
