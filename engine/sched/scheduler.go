package sched

import (
	"sort"
	"time"
)

// Key identifies a scheduled task; scheduling on a busy key replaces the pending task
type Key struct {
	Kind string
	ID   int64
}

type task struct {
	due time.Duration
	seq uint64
	fn  func()
}

// Scheduler runs delayed callbacks against simulation time
// Tasks fire on the loop goroutine during Advance, never concurrently with a tick
type Scheduler struct {
	now     time.Duration
	seq     uint64
	pending map[Key]*task
}

// NewScheduler creates an empty scheduler at time zero
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[Key]*task)}
}

// After schedules fn to run once delay has elapsed, cancelling any pending task on key
func (s *Scheduler) After(key Key, delay time.Duration, fn func()) {
	s.seq++
	s.pending[key] = &task{due: s.now + delay, seq: s.seq, fn: fn}
}

// Cancel drops the pending task on key and reports whether one existed
func (s *Scheduler) Cancel(key Key) bool {
	if _, ok := s.pending[key]; !ok {
		return false
	}
	delete(s.pending, key)
	return true
}

// Pending reports whether a task is waiting on key
func (s *Scheduler) Pending(key Key) bool {
	_, ok := s.pending[key]
	return ok
}

// Len returns the number of pending tasks
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Now returns the elapsed simulation time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance moves simulation time forward and runs due tasks in due order
// Tasks scheduled by a firing task run in a later Advance at the earliest
func (s *Scheduler) Advance(dt time.Duration) {
	s.now += dt

	type dueTask struct {
		key Key
		t   *task
	}
	var due []dueTask
	for k, t := range s.pending {
		if t.due <= s.now {
			due = append(due, dueTask{k, t})
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].t.due != due[j].t.due {
			return due[i].t.due < due[j].t.due
		}
		return due[i].t.seq < due[j].t.seq
	})

	for _, d := range due {
		// A previous callback may have cancelled or replaced this key
		if s.pending[d.key] != d.t {
			continue
		}
		delete(s.pending, d.key)
		d.t.fn()
	}
}
