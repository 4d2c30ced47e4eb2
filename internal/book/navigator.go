// Package book lays diary pages out as a two-page paper book: a cover, a
// table of contents and content pages, turned one spread at a time.
//
// Virtual page 0 is the cover, virtual page 1 the table of contents and
// virtual page N>1 shows diary page N-1. A spread is addressed by the virtual
// number of its left side.
package book

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/csheth/shadowscribe/internal/diary"
	"github.com/csheth/shadowscribe/internal/logging"
	"github.com/csheth/shadowscribe/internal/markup"
)

const (
	// CoverSpread is the closed book.
	CoverSpread = 0
	// ContentsSpread holds the table of contents and page 1.
	ContentsSpread = 1

	DefaultPreviewLength = 30
	DefaultDateLayout    = "January 2, 2006"
)

// SlotKind tags what one side of a spread shows.
type SlotKind int

const (
	SlotVoid SlotKind = iota
	SlotCover
	SlotTOC
	SlotPage
)

func (k SlotKind) String() string {
	switch k {
	case SlotVoid:
		return "void"
	case SlotCover:
		return "cover"
	case SlotTOC:
		return "toc"
	case SlotPage:
		return "page"
	default:
		return "unknown"
	}
}

// Slot is one side of a spread. Page is set for SlotPage, TOC for SlotTOC.
type Slot struct {
	Kind SlotKind
	Page diary.Page
	TOC  []TOCEntry
}

// PageNumber returns the diary page shown, or 0 for non-page slots.
func (s Slot) PageNumber() int {
	if s.Kind != SlotPage {
		return 0
	}
	return s.Page.PageNumber
}

// Spread is the pair of slots visible at once.
type Spread struct {
	Number int
	Left   Slot
	Right  Slot
}

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	PageNumber int
	DateLabel  string
	Preview    string
	Truncated  bool
}

// NextSpread returns the spread after n.
func NextSpread(n int) int {
	if n <= CoverSpread {
		return ContentsSpread
	}
	return n + 2
}

// PrevSpread returns the spread before n. The cover has no predecessor.
func PrevSpread(n int) int {
	if n <= ContentsSpread {
		return CoverSpread
	}
	return n - 2
}

// SpreadForPage returns the spread showing diary page p.
func SpreadForPage(p int) int {
	virtual := p + 1
	if virtual%2 == 0 {
		return virtual - 1
	}
	return virtual
}

// normalize maps any left value onto a reachable spread.
func normalize(n int) int {
	switch {
	case n <= CoverSpread:
		return CoverSpread
	case n%2 == 0:
		return n - 1
	default:
		return n
	}
}

// PageSource is the read side of the diary the navigator needs.
type PageSource interface {
	Page(ctx context.Context, pageNumber int) (diary.Page, error)
	List(ctx context.Context) ([]diary.Page, error)
}

// NavigatorConfig tunes how the table of contents is rendered.
type NavigatorConfig struct {
	PreviewLength int
	DateLayout    string
}

// Navigator resolves spreads into slots backed by the page source.
type Navigator struct {
	pages      PageSource
	previewLen int
	dateLayout string
	log        zerolog.Logger
}

// NewNavigator returns a navigator reading from pages.
func NewNavigator(pages PageSource, cfg NavigatorConfig) *Navigator {
	if cfg.PreviewLength <= 0 {
		cfg.PreviewLength = DefaultPreviewLength
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = DefaultDateLayout
	}
	return &Navigator{
		pages:      pages,
		previewLen: cfg.PreviewLength,
		dateLayout: cfg.DateLayout,
		log:        logging.Component("navigator"),
	}
}

// DateLayout returns the layout used for page date labels.
func (n *Navigator) DateLayout() string {
	return n.dateLayout
}

// LoadSpread resolves spread left into its two slots. Missing pages come back
// blank and unsaved. Read failures degrade to blank pages and are logged.
func (n *Navigator) LoadSpread(ctx context.Context, left int) Spread {
	left = normalize(left)
	switch left {
	case CoverSpread:
		return Spread{
			Number: CoverSpread,
			Left:   Slot{Kind: SlotVoid},
			Right:  Slot{Kind: SlotCover},
		}
	case ContentsSpread:
		return Spread{
			Number: ContentsSpread,
			Left:   Slot{Kind: SlotTOC, TOC: n.TableOfContents(ctx)},
			Right:  n.pageSlot(ctx, 1),
		}
	default:
		return Spread{
			Number: left,
			Left:   n.pageSlot(ctx, left-1),
			Right:  n.pageSlot(ctx, left),
		}
	}
}

// JumpToPage loads the spread holding diary page p.
func (n *Navigator) JumpToPage(ctx context.Context, p int) (int, Spread) {
	left := SpreadForPage(p)
	return left, n.LoadSpread(ctx, left)
}

// TableOfContents lists every stored page in order.
func (n *Navigator) TableOfContents(ctx context.Context) []TOCEntry {
	pages, err := n.pages.List(ctx)
	if err != nil {
		n.log.Warn().Err(err).Msg("table of contents unavailable")
		return nil
	}
	entries := make([]TOCEntry, 0, len(pages))
	for _, p := range pages {
		preview, truncated := markup.Preview(p.Content, n.previewLen)
		entries = append(entries, TOCEntry{
			PageNumber: p.PageNumber,
			DateLabel:  p.DateLabel(n.dateLayout),
			Preview:    preview,
			Truncated:  truncated,
		})
	}
	return entries
}

func (n *Navigator) pageSlot(ctx context.Context, pageNumber int) Slot {
	page, err := n.pages.Page(ctx, pageNumber)
	if err != nil {
		n.log.Warn().Err(err).Int("page", pageNumber).Msg("page unavailable, showing blank")
		page = diary.Page{PageNumber: pageNumber}
	}
	return Slot{Kind: SlotPage, Page: page}
}
