package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/csheth/shadowscribe/internal/logging"
)

// FirstPageTitle is the title of the page seeded into an empty diary.
const FirstPageTitle = "My First Page"

// Diary is the write path for pages. It stamps ids and timestamps and
// synthesizes blank pages for numbers that were never written.
type Diary struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

// Option customizes a Diary.
type Option func(*Diary)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Diary) {
		d.now = now
	}
}

// New wraps store in a Diary.
func New(store Store, opts ...Option) *Diary {
	d := &Diary{
		store: store,
		now:   time.Now,
		log:   logging.Component("diary"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Page returns the stored page, or an unsaved blank page when the number has
// never been written. The blank page only becomes persistent through Save.
func (d *Diary) Page(ctx context.Context, pageNumber int) (Page, error) {
	if pageNumber < 1 {
		return Page{}, ErrInvalidPage
	}
	page, err := d.store.Get(ctx, pageNumber)
	switch {
	case err == nil:
		return page, nil
	case errors.Is(err, ErrNotFound):
		return d.Blank(pageNumber), nil
	default:
		return Page{}, fmt.Errorf("get page %d: %w", pageNumber, err)
	}
}

// Blank synthesizes an empty page. It is not stored.
func (d *Diary) Blank(pageNumber int) Page {
	now := d.now()
	return Page{
		ID:         uuid.NewString(),
		PageNumber: pageNumber,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Save upserts page, refreshing ModifiedAt. Missing ids and creation times
// are filled in.
func (d *Diary) Save(ctx context.Context, page Page) (Page, error) {
	if page.PageNumber < 1 {
		return Page{}, ErrInvalidPage
	}
	now := d.now()
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	if page.CreatedAt.IsZero() {
		page.CreatedAt = now
	}
	page.ModifiedAt = now

	if err := d.store.Put(ctx, page); err != nil {
		return Page{}, fmt.Errorf("save page %d: %w", page.PageNumber, err)
	}
	d.log.Debug().Int("page", page.PageNumber).Int("bytes", len(page.Content)).Msg("page saved")
	return page, nil
}

// SetContent replaces the content of a page, creating it when needed.
func (d *Diary) SetContent(ctx context.Context, pageNumber int, content string) (Page, error) {
	return d.update(ctx, pageNumber, func(p *Page) { p.Content = content })
}

// SetCustomDate replaces the display date of a page. It does not affect ModifiedAt
// beyond the normal write stamp.
func (d *Diary) SetCustomDate(ctx context.Context, pageNumber int, label string) (Page, error) {
	return d.update(ctx, pageNumber, func(p *Page) { p.CustomDate = label })
}

// SetShadow records the analysis and emotional tags produced for a page.
func (d *Diary) SetShadow(ctx context.Context, pageNumber int, response string, tags []string) (Page, error) {
	return d.update(ctx, pageNumber, func(p *Page) {
		p.ShadowResponse = response
		p.Tags = append([]string(nil), tags...)
	})
}

func (d *Diary) update(ctx context.Context, pageNumber int, mutate func(*Page)) (Page, error) {
	page, err := d.Page(ctx, pageNumber)
	if err != nil {
		return Page{}, err
	}
	mutate(&page)
	return d.Save(ctx, page)
}

// List returns every stored page ordered by page number.
func (d *Diary) List(ctx context.Context) ([]Page, error) {
	pages, err := d.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return pages, nil
}

// Initialize seeds page 1 when the diary is empty. It reports whether a page
// was created.
func (d *Diary) Initialize(ctx context.Context) (bool, error) {
	pages, err := d.List(ctx)
	if err != nil {
		return false, err
	}
	if len(pages) > 0 {
		return false, nil
	}
	first := d.Blank(1)
	first.Title = FirstPageTitle
	if _, err := d.Save(ctx, first); err != nil {
		return false, err
	}
	d.log.Info().Msg("seeded empty diary")
	return true, nil
}

// Clear removes every page.
func (d *Diary) Clear(ctx context.Context) error {
	if err := d.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear pages: %w", err)
	}
	d.log.Info().Msg("diary cleared")
	return nil
}
