package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source used when stamping added_to_db,
// created_at, and collection windows. Production code uses the real clock;
// tests inject a fake via SetClock for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Clock returns the package clock for callers that need raw time values
// rather than formatted timestamps (collection window arithmetic).
func Clock() clockwork.Clock {
	return clock
}
