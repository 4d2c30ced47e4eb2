// Package diary holds the page model, the storage contract and the service
// the rest of the application writes pages through.
package diary

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by a Store when no page exists for a number.
	ErrNotFound = errors.New("page not found")
	// ErrInvalidPage is returned when a page number is not positive.
	ErrInvalidPage = errors.New("page number must be positive")
	// ErrInvalidImport wraps the field errors of a rejected import.
	ErrInvalidImport = errors.New("invalid import")
)

// Page is one physical diary page. The JSON field names double as the
// import/export schema.
type Page struct {
	ID         string    `json:"id"`
	PageNumber int       `json:"pageNumber"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Title      string    `json:"title,omitempty"`
	CustomDate string    `json:"customDate,omitempty"`

	// ShadowResponse is the last analysis written on the loose leaf beside the page.
	ShadowResponse string   `json:"shadowResponse,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// DateLabel returns the custom date when set, otherwise the modification time
// rendered with layout.
func (p Page) DateLabel(layout string) string {
	if p.CustomDate != "" {
		return p.CustomDate
	}
	if p.ModifiedAt.IsZero() {
		return ""
	}
	return p.ModifiedAt.Local().Format(layout)
}

// Store persists pages keyed by page number.
type Store interface {
	// Get returns ErrNotFound when the page has never been written.
	Get(ctx context.Context, pageNumber int) (Page, error)
	// Put inserts or replaces the page with the same number.
	Put(ctx context.Context, page Page) error
	// List returns every page ordered by page number.
	List(ctx context.Context) ([]Page, error)
	DeleteAll(ctx context.Context) error
	// ReplaceAll swaps the full page set atomically.
	ReplaceAll(ctx context.Context, pages []Page) error
}
