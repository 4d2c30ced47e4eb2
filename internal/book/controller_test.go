package book

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/shadowscribe/internal/diary"
)

func newTestController(t *testing.T, d *diary.Diary) *Controller {
	t.Helper()
	nav := NewNavigator(d, NavigatorConfig{})
	return NewController(nav, NewAnimator(time.Second, Spread{}))
}

func finish(t *testing.T, c *Controller, tr Transition) {
	t.Helper()
	require.True(t, c.Finish(tr.Seq))
	require.False(t, c.Animating())
}

func TestControllerStartsClosed(t *testing.T) {
	c := newTestController(t, newTestDiary(t))
	assert.Equal(t, CoverSpread, c.Current())
	assert.Equal(t, SlotCover, c.Spread().Right.Kind)
}

func TestControllerNextPrev(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, newTestDiary(t))

	tr, ok := c.GoNext(ctx)
	require.True(t, ok)
	assert.Equal(t, DirectionNext, tr.Direction)
	assert.Equal(t, 1, c.Current())
	finish(t, c, tr)

	tr, ok = c.GoNext(ctx)
	require.True(t, ok)
	assert.Equal(t, 3, c.Current())
	finish(t, c, tr)

	tr, ok = c.GoPrev(ctx)
	require.True(t, ok)
	assert.Equal(t, DirectionPrev, tr.Direction)
	assert.Equal(t, 1, c.Current())
	finish(t, c, tr)

	tr, ok = c.GoPrev(ctx)
	require.True(t, ok)
	assert.Equal(t, 0, c.Current())
	finish(t, c, tr)

	_, ok = c.GoPrev(ctx)
	assert.False(t, ok, "cover is terminal")
	assert.Equal(t, 0, c.Current())
}

func TestControllerMutualExclusion(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, newTestDiary(t))

	tr, ok := c.GoNext(ctx)
	require.True(t, ok)
	_, ok = c.GoNext(ctx)
	assert.False(t, ok)
	_, ok = c.GoPrev(ctx)
	assert.False(t, ok)
	_, ok = c.JumpTo(ctx, 9)
	assert.False(t, ok)
	_, ok = c.CloseBook(ctx)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Current(), "advanced exactly one step")

	assert.False(t, c.Finish(tr.Seq+10))
	finish(t, c, tr)
}

func TestControllerJumpTo(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, newTestDiary(t,
		diary.Page{PageNumber: 2, Content: "two"},
		diary.Page{PageNumber: 3, Content: "three"},
	))

	tr, ok := c.JumpTo(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, DirectionNext, tr.Direction)
	assert.Equal(t, 3, c.Current())
	s := c.Spread()
	assert.Equal(t, "two", s.Left.Page.Content)
	assert.Equal(t, "three", s.Right.Page.Content)
	finish(t, c, tr)

	_, ok = c.JumpTo(ctx, 3)
	assert.False(t, ok, "same spread refreshes in place")
	assert.Equal(t, 3, c.Current())

	tr, ok = c.JumpTo(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, DirectionPrev, tr.Direction)
	assert.Equal(t, 1, c.Current())
	finish(t, c, tr)

	_, ok = c.JumpTo(ctx, 0)
	assert.False(t, ok)
}

func TestControllerCloseBookAlwaysTurnsBack(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, newTestDiary(t))

	tr, ok := c.JumpTo(ctx, 6)
	require.True(t, ok)
	finish(t, c, tr)
	require.Equal(t, 7, c.Current())

	tr, ok = c.CloseBook(ctx)
	require.True(t, ok)
	assert.Equal(t, DirectionPrev, tr.Direction)
	assert.Equal(t, CoverSpread, c.Current())
	finish(t, c, tr)
}

func TestControllerRefreshPicksUpEdits(t *testing.T) {
	ctx := context.Background()
	d := newTestDiary(t)
	c := newTestController(t, d)

	tr, ok := c.GoNext(ctx)
	require.True(t, ok)
	finish(t, c, tr)

	_, err := d.SetContent(ctx, 1, "written")
	require.NoError(t, err)
	c.Refresh(ctx)

	assert.Equal(t, "written", c.Spread().Right.Page.Content)
	require.Len(t, c.Spread().Left.TOC, 1)
}

func TestControllerHandleKey(t *testing.T) {
	ctx := context.Background()
	c := newTestController(t, newTestDiary(t))

	_, ok := c.HandleKey(ctx, "left", false)
	assert.False(t, ok, "left ignored on the cover")

	_, ok = c.HandleKey(ctx, "right", true)
	assert.False(t, ok, "ignored while editing")

	tr, ok := c.HandleKey(ctx, "right", false)
	require.True(t, ok)
	finish(t, c, tr)

	tr, ok = c.HandleKey(ctx, "left", false)
	require.True(t, ok)
	assert.Equal(t, DirectionPrev, tr.Direction)
	finish(t, c, tr)

	_, ok = c.HandleKey(ctx, "q", false)
	assert.False(t, ok)
}

func TestScenarioFreshDiary(t *testing.T) {
	ctx := context.Background()
	d := newTestDiary(t)
	_, err := d.Initialize(ctx)
	require.NoError(t, err)

	nav := NewNavigator(d, NavigatorConfig{})
	s := nav.LoadSpread(ctx, 1)
	assert.Equal(t, SlotTOC, s.Left.Kind)
	require.Len(t, s.Left.TOC, 1)
	assert.Equal(t, "Empty page", s.Left.TOC[0].Preview)
	assert.Equal(t, 1, s.Right.PageNumber())
	assert.Empty(t, s.Right.Page.Content)
}
