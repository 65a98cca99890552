package sched

import (
	"testing"
	"time"
)

func TestScheduler_FiresAfterDelay(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(Key{"revert", 1}, time.Second, func() { fired++ })

	s.Advance(999 * time.Millisecond)
	if fired != 0 {
		t.Fatal("Task fired early")
	}

	s.Advance(time.Millisecond)
	if fired != 1 {
		t.Fatalf("Expected task to fire once, fired %d", fired)
	}

	s.Advance(time.Second)
	if fired != 1 {
		t.Errorf("Task fired again: %d", fired)
	}
}

func TestScheduler_RescheduleCancelsPending(t *testing.T) {
	s := NewScheduler()
	key := Key{"revert", 3}
	var order []string

	s.After(key, time.Second, func() { order = append(order, "first") })
	s.Advance(500 * time.Millisecond)
	s.After(key, time.Second, func() { order = append(order, "second") })

	s.Advance(600 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("Replaced task fired: %v", order)
	}

	s.Advance(400 * time.Millisecond)
	if len(order) != 1 || order[0] != "second" {
		t.Errorf("Expected only the replacement to fire, got %v", order)
	}
}

func TestScheduler_Cancel(t *testing.T) {
	s := NewScheduler()
	key := Key{"fade", 0}
	s.After(key, 10*time.Millisecond, func() { t.Error("Cancelled task fired") })

	if !s.Cancel(key) {
		t.Fatal("Expected Cancel to find the task")
	}
	if s.Cancel(key) {
		t.Error("Second Cancel should report nothing pending")
	}
	s.Advance(time.Second)
}

func TestScheduler_DueOrder(t *testing.T) {
	s := NewScheduler()
	var order []int64
	for i, d := range []time.Duration{30, 10, 20} {
		id := int64(i)
		s.After(Key{"t", id}, d*time.Millisecond, func() { order = append(order, id) })
	}

	s.Advance(time.Second)

	want := []int64{1, 2, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, order)
		}
	}
}

func TestScheduler_CallbackCancelsSibling(t *testing.T) {
	s := NewScheduler()
	a, b := Key{"t", 1}, Key{"t", 2}
	s.After(a, 10*time.Millisecond, func() { s.Cancel(b) })
	s.After(b, 20*time.Millisecond, func() { t.Error("Sibling cancelled by earlier task still fired") })

	s.Advance(time.Second)
	if s.Len() != 0 {
		t.Errorf("Expected empty scheduler, got %d", s.Len())
	}
}
