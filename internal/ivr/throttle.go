package ivr

import (
	"sync"
	"time"
)

// Throttle decides when a delivery should also trigger a call-out. It fires
// after Every deliveries or once Interval has passed since the last fire,
// whichever comes first, and never during quiet hours.
type Throttle struct {
	Every      int
	Interval   time.Duration
	QuietFrom  int
	QuietUntil int
	Location   *time.Location

	mu       sync.Mutex
	count    int
	lastFire time.Time
}

// NewThrottle starts the interval clock at start.
func NewThrottle(every int, interval time.Duration, quietFrom, quietUntil int, loc *time.Location, start time.Time) *Throttle {
	if loc == nil {
		loc = time.Local
	}
	return &Throttle{
		Every:      every,
		Interval:   interval,
		QuietFrom:  quietFrom,
		QuietUntil: quietUntil,
		Location:   loc,
		lastFire:   start,
	}
}

// Record counts one successful delivery at now and reports whether a
// call-out should fire. Firing resets the counter and the interval clock;
// quiet hours suppress firing but keep counting.
func (t *Throttle) Record(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	if t.quiet(now) {
		return false
	}
	due := (t.Every > 0 && t.count >= t.Every) ||
		(t.Interval > 0 && now.Sub(t.lastFire) >= t.Interval)
	if !due {
		return false
	}
	t.count = 0
	t.lastFire = now
	return true
}

// State returns the pending delivery count and the last fire time.
func (t *Throttle) State() (int, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count, t.lastFire
}

func (t *Throttle) quiet(now time.Time) bool {
	if t.QuietFrom == t.QuietUntil {
		return false
	}
	h := now.In(t.Location).Hour()
	if t.QuietFrom < t.QuietUntil {
		return h >= t.QuietFrom && h < t.QuietUntil
	}
	// window wraps midnight, e.g. 22-6
	return h >= t.QuietFrom || h < t.QuietUntil
}
