package tween

import (
	"time"
)

// Key identifies the property a tween drives; a new tween on the same key replaces the old one
type Key struct {
	Kind string
	ID   int64
}

// Tween interpolates one numeric property toward a target over a duration
type Tween struct {
	from, to float64
	duration time.Duration
	elapsed  time.Duration
	ease     Easing
	apply    func(float64)
}

// Value returns the eased value at the current elapsed time
func (t *Tween) Value() float64 {
	if t.duration <= 0 || t.elapsed >= t.duration {
		return t.to
	}
	p := float64(t.elapsed) / float64(t.duration)
	return Lerp(t.from, t.to, t.ease(p))
}

// Done reports whether the tween reached its target
func (t *Tween) Done() bool {
	return t.elapsed >= t.duration
}

// step advances the tween, applies the new value and reports completion
func (t *Tween) step(dt time.Duration) bool {
	t.elapsed += dt
	t.apply(t.Value())
	return t.Done()
}

// Set owns the running tweens of a scene
// Not safe for concurrent use; driven from the render loop
type Set struct {
	active map[Key]*Tween
}

// NewSet creates an empty tween set
func NewSet() *Set {
	return &Set{active: make(map[Key]*Tween)}
}

// To starts a tween from the current value to target, replacing any tween on key
// A zero duration applies the target immediately
func (s *Set) To(key Key, from, to float64, d time.Duration, ease Easing, apply func(float64)) {
	if ease == nil {
		ease = Linear
	}
	delete(s.active, key)
	if d <= 0 {
		apply(to)
		return
	}
	s.active[key] = &Tween{from: from, to: to, duration: d, ease: ease, apply: apply}
}

// Cancel stops a tween, leaving the property at its last applied value
func (s *Set) Cancel(key Key) {
	delete(s.active, key)
}

// Active reports whether a tween is running on key
func (s *Set) Active(key Key) bool {
	_, ok := s.active[key]
	return ok
}

// Len returns the number of running tweens
func (s *Set) Len() int {
	return len(s.active)
}

// Advance steps every tween by dt and drops the finished ones
func (s *Set) Advance(dt time.Duration) {
	for k, t := range s.active {
		if t.step(dt) {
			delete(s.active, k)
		}
	}
}
