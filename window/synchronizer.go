package window

import "time"

// TimeSynchronizer paces the emulation to a target frame rate.
type TimeSynchronizer struct {
	prev     time.Time
	perFrame time.Duration
	now      func() time.Time
	sleep    func(time.Duration)
}

func NewTimeSynchronizer(targetFPS float64) *TimeSynchronizer {
	return newTimeSynchronizer(targetFPS, time.Now, time.Sleep)
}

func newTimeSynchronizer(targetFPS float64, now func() time.Time, sleep func(time.Duration)) *TimeSynchronizer {
	return &TimeSynchronizer{
		prev:     now(),
		perFrame: time.Duration(float64(time.Second) / targetFPS),
		now:      now,
		sleep:    sleep,
	}
}

// MaySleep is called once per frame and sleeps for whatever is left of the
// frame's time slot. A late frame does not sleep.
func (ts *TimeSynchronizer) MaySleep() {
	cur := ts.now()
	if cur.Before(ts.prev) {
		return
	}
	diff := ts.perFrame - cur.Sub(ts.prev)
	if diff > time.Millisecond {
		ts.sleep(diff)
	}
	ts.prev = ts.prev.Add(ts.perFrame)
	// Do not try to catch up after a long stall.
	if cur.Sub(ts.prev) > 10*ts.perFrame {
		ts.prev = cur
	}
}
