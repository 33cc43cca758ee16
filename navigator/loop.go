package navigator

import "time"

// Loop is a Host for single-goroutine event loops. The owner calls Scroll
// for every scroll event and Fire when a scheduled timer comes due.
//
// Schedule is invoked when a timer is requested; it must arrange for Fire(id)
// to be called on the loop goroutine after d. A nil Schedule leaves timers
// pending until the owner fires them.
type Loop struct {
	Schedule func(d time.Duration, id int)

	nextID    int
	listeners map[int]func()
	order     []int
	timers    map[int]func()
}

// OnScroll registers fn for scroll events.
func (l *Loop) OnScroll(fn func()) func() {
	if l.listeners == nil {
		l.listeners = make(map[int]func())
	}
	l.nextID++
	id := l.nextID
	l.listeners[id] = fn
	l.order = append(l.order, id)
	return func() {
		delete(l.listeners, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

// AfterFunc registers fn to run once when timer id fires.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	if l.timers == nil {
		l.timers = make(map[int]func())
	}
	l.nextID++
	id := l.nextID
	l.timers[id] = fn
	if l.Schedule != nil {
		l.Schedule(d, id)
	}
	return func() bool {
		if _, ok := l.timers[id]; !ok {
			return false
		}
		delete(l.timers, id)
		return true
	}
}

// Scroll dispatches a scroll event to every listener.
func (l *Loop) Scroll() {
	for _, id := range append([]int(nil), l.order...) {
		if fn, ok := l.listeners[id]; ok {
			fn()
		}
	}
}

// Fire runs timer id if it is still pending. Stopped or already fired
// timers are ignored.
func (l *Loop) Fire(id int) {
	fn, ok := l.timers[id]
	if !ok {
		return
	}
	delete(l.timers, id)
	fn()
}

// FireAll runs every pending timer.
func (l *Loop) FireAll() {
	for id := range l.timers {
		l.Fire(id)
	}
}

// Listeners returns the number of registered scroll listeners.
func (l *Loop) Listeners() int {
	return len(l.listeners)
}

// Pending returns the number of timers that have not fired or been stopped.
func (l *Loop) Pending() int {
	return len(l.timers)
}
