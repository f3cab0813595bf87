// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// Code that measures or stamps time accepts a [Clock] instead of
// calling time.Now directly. Programs pass [Real]; tests pass a
// [FakeClock], which only moves when told to:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	middleware := timing(c)
//	c.Advance(250 * time.Millisecond)
package clock
