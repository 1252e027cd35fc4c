// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package windows

import (
	"cmp"
	"slices"

	"github.com/ManuGH/availwin/internal/rights"
)

// HoldOffset shifts on-hold windows a thousand (365-day) years ahead.
const HoldOffset int64 = 1000 * 365 * 24 * 60 * 60 * 1000

// SortKey is the hold-adjusted start used to order windows. Only the start
// is offset.
func SortKey(w rights.Window) int64 {
	if w.OnHold {
		return w.StartDate + HoldOffset
	}
	return w.StartDate
}

// SortWindows returns a copy of ws in ascending SortKey order. Equal keys
// keep their input order.
func SortWindows(ws []rights.Window) []rights.Window {
	out := slices.Clone(ws)
	slices.SortStableFunc(out, func(a, b rights.Window) int {
		return cmp.Compare(SortKey(a), SortKey(b))
	})
	return out
}

// RoundDate truncates an epoch-millisecond timestamp to the whole second
// at or before it.
func RoundDate(ms int64) int64 {
	r := ms % 1000
	if r < 0 {
		r += 1000
	}
	return ms - r
}

// OutputDates returns the rounded window bounds, both shifted by HoldOffset
// when the window is on hold. The source window is not modified.
func OutputDates(w rights.Window) (start, end int64) {
	start, end = RoundDate(w.StartDate), RoundDate(w.EndDate)
	if w.OnHold {
		start += HoldOffset
		end += HoldOffset
	}
	return start, end
}
