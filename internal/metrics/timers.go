package metrics

import "time"

// Timers measures the stages of a run (read, summarize, render, publish).
type Timers struct {
	Timers map[string]*Timer `json:"timers,omitempty" yaml:"timers,omitempty"`
	last   string
	now    func() time.Time
}

func NewTimers() Timers {
	return NewTimersWithClock(time.Now)
}

func NewTimersWithClock(now func() time.Time) Timers {
	return Timers{Timers: make(map[string]*Timer), now: now}
}

// set a timer, updating if existing.
func (ts *Timers) set(k string) {
	if ts.Timers == nil {
		ts.Timers = make(map[string]*Timer)
	}
	if ts.now == nil {
		ts.now = time.Now
	}
	if _, ok := ts.Timers[k]; !ok {
		ts.Timers[k] = &Timer{start: ts.now()}
	} else {
		stop := ts.now()
		ts.Timers[k].Total = stop.Sub(ts.Timers[k].start).Seconds()
	}
}

// Set check last timer, stop and add a new one (lap).
func (ts *Timers) Set(k string) {
	if ts.last != "" {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Add a new timer, or stop it when it already exists.
func (ts *Timers) Add(k string) {
	ts.set(k)
}

type Timer struct {
	start time.Time

	// Total time in seconds
	Total float64 `json:"seconds" yaml:"seconds"`
}
