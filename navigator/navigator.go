// Package navigator keeps a section navigation bar's pinned mode and active
// link in sync with the scroll position of a page.
//
// Layout reads go through a Viewport and event delivery through a Host, so
// the same controller runs against a browser bridge, a terminal preview or
// synthetic rectangles in tests.
package navigator

import (
	"errors"
	"time"
)

const (
	// ActivationLine is the offset from the viewport top, in pixels, that a
	// section must straddle to become active.
	ActivationLine = 100.0
	// DefaultNavHeight reserves space for the pinned bar before it has been
	// measured.
	DefaultNavHeight = 58.0
	// SettleDelay is how long after mount the one-shot recompute runs.
	SettleDelay = 100 * time.Millisecond

	// MarkerID is the zero-height element left at the bar's original position.
	MarkerID = "blog-nav-marker"
	// NavID is the navigation bar element.
	NavID = "blog-nav"
)

var (
	// ErrMounted is returned by Mount when the navigator is already mounted.
	ErrMounted = errors.New("navigator: already mounted")
	// ErrNoHost is returned by Mount when no host is supplied.
	ErrNoHost = errors.New("navigator: host is required")
)

// Rect is an element's bounding box relative to the viewport top.
type Rect struct {
	Top    float64
	Bottom float64
}

// Height returns Bottom-Top.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Viewport answers layout queries for elements by id. ok is false when the
// element is not in the document.
type Viewport interface {
	Rect(id string) (r Rect, ok bool)
}

// Host delivers scroll events and timers. Callbacks must all run on the
// same goroutine.
type Host interface {
	OnScroll(fn func()) (remove func())
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// State is the derived view state rendered by the navigation bar.
type State struct {
	Pinned        bool
	ActiveSection SectionID
	NavHeight     float64
}

// Navigator owns the state for one mounted navigation bar.
type Navigator struct {
	registry []SectionID
	vp       Viewport
	state    State
	onChange func(State)

	mounted      bool
	removeScroll func()
	stopSettle   func() bool
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithOnChange registers fn to be called whenever the state changes.
func WithOnChange(fn func(State)) Option {
	return func(n *Navigator) {
		n.onChange = fn
	}
}

// New creates a navigator for the given categories reading layout from vp.
func New(categories []Category, vp Viewport, opts ...Option) *Navigator {
	n := &Navigator{
		registry: NewRegistry(categories),
		vp:       vp,
	}
	n.state = Initial(categories)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Initial returns the state a navigator starts in before any measurement.
func Initial(categories []Category) State {
	return State{ActiveSection: NewRegistry(categories)[0]}
}

// Registry returns the section identifiers in scan order.
func (n *Navigator) Registry() []SectionID {
	out := make([]SectionID, len(n.registry))
	copy(out, n.registry)
	return out
}

// State returns the current state.
func (n *Navigator) State() State {
	return n.state
}

// Mounted reports whether the navigator is subscribed to a host.
func (n *Navigator) Mounted() bool {
	return n.mounted
}

// ComputePinned reports whether the marker has reached the viewport top.
// A missing marker leaves the previous decision in place.
func (n *Navigator) ComputePinned() bool {
	r, ok := n.vp.Rect(MarkerID)
	if !ok {
		return n.state.Pinned
	}
	return r.Top <= 0
}

// ComputeActiveSection returns the first section in registry order that
// straddles the activation line, or the current section if none does.
func (n *Navigator) ComputeActiveSection() SectionID {
	for _, id := range n.registry {
		r, ok := n.vp.Rect(string(id))
		if !ok {
			continue
		}
		if r.Top <= ActivationLine && r.Bottom > ActivationLine {
			return id
		}
	}
	return n.state.ActiveSection
}

// MeasureNavHeight reads the rendered height of the navigation bar. It
// returns 0 when the bar is not in the document.
func (n *Navigator) MeasureNavHeight() float64 {
	r, ok := n.vp.Rect(NavID)
	if !ok {
		return 0
	}
	return r.Height()
}

// Recompute refreshes the pinned and active-section state. It does nothing
// once the navigator has been unmounted.
func (n *Navigator) Recompute() {
	if !n.mounted {
		return
	}
	next := n.state
	next.Pinned = n.ComputePinned()
	next.ActiveSection = n.ComputeActiveSection()
	n.set(next)
}

// PlaceholderHeight is the height reserved below the bar while pinned.
func (n *Navigator) PlaceholderHeight() float64 {
	return n.state.PlaceholderHeight()
}

// PlaceholderHeight is the height reserved below the bar while pinned: the
// measured height, or DefaultNavHeight when unmeasured. It is 0 when the bar
// is in normal flow.
func (s State) PlaceholderHeight() float64 {
	if !s.Pinned {
		return 0
	}
	if s.NavHeight > 0 {
		return s.NavHeight
	}
	return DefaultNavHeight
}

// Mount measures the bar, subscribes to scroll events and schedules the
// settle recompute. If setup fails the scroll subscription is released.
func (n *Navigator) Mount(h Host) (err error) {
	if h == nil {
		return ErrNoHost
	}
	if n.mounted {
		return ErrMounted
	}

	next := n.state
	next.NavHeight = n.MeasureNavHeight()
	n.set(next)

	remove := h.OnScroll(n.Recompute)
	done := false
	defer func() {
		if done {
			return
		}
		n.mounted = false
		n.removeScroll = nil
		if remove != nil {
			remove()
		}
	}()

	n.mounted = true
	n.removeScroll = remove
	n.stopSettle = h.AfterFunc(SettleDelay, n.Recompute)
	done = true
	return nil
}

// Unmount releases the scroll listener and the pending settle timer.
func (n *Navigator) Unmount() {
	if !n.mounted {
		return
	}
	n.mounted = false
	if n.removeScroll != nil {
		n.removeScroll()
		n.removeScroll = nil
	}
	if n.stopSettle != nil {
		n.stopSettle()
		n.stopSettle = nil
	}
}

func (n *Navigator) set(next State) {
	if next == n.state {
		return
	}
	n.state = next
	if n.onChange != nil {
		n.onChange(next)
	}
}
