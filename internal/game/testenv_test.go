package game

import "time"

// recorder captures everything an engine broadcasts.
type recordedEvent struct {
	To      string // empty for broadcasts
	Event   string
	Payload any
}

type recorder struct {
	events []recordedEvent
}

func (r *recorder) Broadcast(event string, payload any) {
	r.events = append(r.events, recordedEvent{Event: event, Payload: payload})
}

func (r *recorder) SendTo(playerID, event string, payload any) {
	r.events = append(r.events, recordedEvent{To: playerID, Event: event, Payload: payload})
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (r *recorder) last(event string) (recordedEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Event == event {
			return r.events[i], true
		}
	}
	return recordedEvent{}, false
}

// fakeScheduler hands timer control to the test: callbacks run only when the
// test fires them, mirroring how the session serializes timer callbacks into
// its command loop.
type fakeTimer struct {
	d         time.Duration
	fn        func()
	repeating bool
	cancelled bool
}

type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) CancelFunc {
	t := &fakeTimer{d: d, fn: fn, repeating: true}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) After(d time.Duration, fn func()) CancelFunc {
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

// fire runs every live timer callback once.
func (s *fakeScheduler) fire() {
	for _, t := range s.timers {
		if !t.cancelled {
			t.fn()
		}
	}
}

func (s *fakeScheduler) liveTimers() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// testEnv builds an Env with a recorder and fake scheduler.
func testEnv() (Env, *Registry, *recorder, *fakeScheduler) {
	reg := NewRegistry()
	rec := &recorder{}
	sched := &fakeScheduler{}
	env := Env{
		Registry:  reg,
		Broadcast: rec,
		Scheduler: sched,
		TieBreak:  TieBreakJoinOrder,
	}
	return env, reg, rec, sched
}
