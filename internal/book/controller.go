package book

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/csheth/shadowscribe/internal/logging"
)

// Controller turns navigation intents into page turns, one at a time.
type Controller struct {
	nav     *Navigator
	anim    *Animator
	current int
	log     zerolog.Logger
}

// NewController starts on the closed cover.
func NewController(nav *Navigator, anim *Animator) *Controller {
	c := &Controller{
		nav:     nav,
		anim:    anim,
		current: CoverSpread,
		log:     logging.Component("controller"),
	}
	anim.Show(nav.LoadSpread(context.Background(), CoverSpread))
	return c
}

// Current returns the spread number being shown or turned to.
func (c *Controller) Current() int {
	return c.current
}

// Animating reports whether a turn is in flight.
func (c *Controller) Animating() bool {
	return c.anim.Animating()
}

// Spread returns the resolved current spread.
func (c *Controller) Spread() Spread {
	return c.anim.Current()
}

// Frame returns the render state at now.
func (c *Controller) Frame(now time.Time) Frame {
	return c.anim.Frame(now)
}

// FlipDuration returns the fixed turn duration.
func (c *Controller) FlipDuration() time.Duration {
	return c.anim.Duration()
}

// GoNext turns forward one spread.
func (c *Controller) GoNext(ctx context.Context) (Transition, bool) {
	if c.anim.Animating() {
		return Transition{}, false
	}
	return c.turn(ctx, NextSpread(c.current), DirectionNext)
}

// GoPrev turns back one spread. It does nothing on the cover.
func (c *Controller) GoPrev(ctx context.Context) (Transition, bool) {
	if c.anim.Animating() || c.current == CoverSpread {
		return Transition{}, false
	}
	return c.turn(ctx, PrevSpread(c.current), DirectionPrev)
}

// JumpTo turns directly to the spread holding diary page p. When that spread
// is already showing it is refreshed in place instead.
func (c *Controller) JumpTo(ctx context.Context, p int) (Transition, bool) {
	if c.anim.Animating() || p < 1 {
		return Transition{}, false
	}
	target := SpreadForPage(p)
	switch {
	case target > c.current:
		return c.turn(ctx, target, DirectionNext)
	case target < c.current:
		return c.turn(ctx, target, DirectionPrev)
	default:
		c.Refresh(ctx)
		return Transition{}, false
	}
}

// CloseBook returns to the cover with a backwards turn from wherever the
// book is open.
func (c *Controller) CloseBook(ctx context.Context) (Transition, bool) {
	if c.anim.Animating() {
		return Transition{}, false
	}
	return c.turn(ctx, CoverSpread, DirectionPrev)
}

// Refresh reloads the current spread without turning.
func (c *Controller) Refresh(ctx context.Context) {
	c.anim.Show(c.nav.LoadSpread(ctx, c.current))
}

// Finish is the flip timer callback. It reports whether a turn ended.
func (c *Controller) Finish(seq uint64) bool {
	return c.anim.Complete(seq)
}

// HandleKey maps arrow keys to turns. Keys are ignored while the user is
// typing into a page.
func (c *Controller) HandleKey(ctx context.Context, key string, editing bool) (Transition, bool) {
	if editing {
		return Transition{}, false
	}
	switch key {
	case "right":
		return c.GoNext(ctx)
	case "left":
		if c.current > CoverSpread {
			return c.GoPrev(ctx)
		}
	}
	return Transition{}, false
}

func (c *Controller) turn(ctx context.Context, target int, dir Direction) (Transition, bool) {
	incoming := c.nav.LoadSpread(ctx, target)
	t, ok := c.anim.Turn(dir, incoming)
	if !ok {
		return Transition{}, false
	}
	c.current = incoming.Number
	c.log.Debug().Int("from", t.From).Int("to", t.To).Stringer("dir", dir).Msg("page turn")
	return t, true
}
