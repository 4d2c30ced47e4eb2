package book

import (
	"time"
)

// DefaultFlipDuration is how long a page turn takes.
const DefaultFlipDuration = time.Second

// Direction is the way a page turns.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionNext
	DirectionPrev
)

func (d Direction) String() string {
	switch d {
	case DirectionNext:
		return "next"
	case DirectionPrev:
		return "prev"
	default:
		return "none"
	}
}

// State is the animator phase.
type State int

const (
	StateIdle State = iota
	StateAnimatingNext
	StateAnimatingPrev
)

func (s State) String() string {
	switch s {
	case StateAnimatingNext:
		return "animating-next"
	case StateAnimatingPrev:
		return "animating-prev"
	default:
		return "idle"
	}
}

// Transition describes one accepted page turn. The caller schedules a timer
// for Duration and hands Seq back to Complete when it fires.
type Transition struct {
	Seq       uint64
	Direction Direction
	Duration  time.Duration
	StartedAt time.Time
	From      int
	To        int
}

// Frame is what to draw at a moment in time. While a turn is in flight the
// base slots sit underneath and Front/Back are the two faces of the turning
// leaf, rotated by Angle degrees around the spine.
type Frame struct {
	Animating bool
	Direction Direction
	Progress  float64
	Angle     float64

	BaseLeft  Slot
	BaseRight Slot
	Front     Slot
	Back      Slot
}

// FrontVisible reports whether the leaf shows its front face, i.e. it has
// not yet passed the vertical.
func (f Frame) FrontVisible() bool {
	return f.Angle > -90
}

// Animator runs one page turn at a time. It keeps a snapshot of the outgoing
// spread for as long as a turn is in flight.
type Animator struct {
	duration   time.Duration
	now        func() time.Time
	onComplete func(Transition)

	current  Spread
	snapshot Spread
	active   *Transition
	seq      uint64
}

// AnimatorOption customizes an Animator.
type AnimatorOption func(*Animator)

// WithAnimatorClock overrides the time source.
func WithAnimatorClock(now func() time.Time) AnimatorOption {
	return func(a *Animator) {
		a.now = now
	}
}

// OnComplete registers a callback run once per finished turn.
func OnComplete(fn func(Transition)) AnimatorOption {
	return func(a *Animator) {
		a.onComplete = fn
	}
}

// NewAnimator returns an idle animator showing initial.
func NewAnimator(duration time.Duration, initial Spread, opts ...AnimatorOption) *Animator {
	if duration <= 0 {
		duration = DefaultFlipDuration
	}
	a := &Animator{
		duration: duration,
		now:      time.Now,
		current:  initial,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Duration returns the fixed turn duration.
func (a *Animator) Duration() time.Duration {
	return a.duration
}

// Current returns the spread that is, or will be once the turn ends, on display.
func (a *Animator) Current() Spread {
	return a.current
}

// State reports the current phase.
func (a *Animator) State() State {
	if a.active == nil {
		return StateIdle
	}
	if a.active.Direction == DirectionPrev {
		return StateAnimatingPrev
	}
	return StateAnimatingNext
}

// Animating reports whether a turn is in flight.
func (a *Animator) Animating() bool {
	return a.active != nil
}

// Show replaces the displayed spread without turning. During a turn it
// replaces the incoming side only.
func (a *Animator) Show(s Spread) {
	a.current = s
}

// Turn starts a page turn towards incoming. It is refused while another
// turn is in flight.
func (a *Animator) Turn(dir Direction, incoming Spread) (Transition, bool) {
	if a.active != nil || dir == DirectionNone {
		return Transition{}, false
	}
	a.seq++
	t := Transition{
		Seq:       a.seq,
		Direction: dir,
		Duration:  a.duration,
		StartedAt: a.now(),
		From:      a.current.Number,
		To:        incoming.Number,
	}
	a.snapshot = a.current
	a.current = incoming
	a.active = &t
	return t, true
}

// Complete ends the turn identified by seq. Stale and repeated calls return
// false and do nothing.
func (a *Animator) Complete(seq uint64) bool {
	if a.active == nil || a.active.Seq != seq {
		return false
	}
	done := *a.active
	a.active = nil
	a.snapshot = Spread{}
	if a.onComplete != nil {
		a.onComplete(done)
	}
	return true
}

// Frame computes the render state at now. Progress is derived from the same
// fixed duration the completion timer uses.
func (a *Animator) Frame(now time.Time) Frame {
	if a.active == nil {
		return Frame{BaseLeft: a.current.Left, BaseRight: a.current.Right}
	}

	progress := float64(now.Sub(a.active.StartedAt)) / float64(a.active.Duration)
	progress = min(max(progress, 0), 1)

	prev, next := a.snapshot, a.current
	f := Frame{
		Animating: true,
		Direction: a.active.Direction,
		Progress:  progress,
	}
	switch a.active.Direction {
	case DirectionNext:
		f.BaseLeft, f.BaseRight = prev.Left, next.Right
		f.Front, f.Back = prev.Right, next.Left
		f.Angle = -180 * progress
	case DirectionPrev:
		f.BaseLeft, f.BaseRight = next.Left, prev.Right
		f.Front, f.Back = next.Right, prev.Left
		f.Angle = -180 * (1 - progress)
	}
	return f
}
