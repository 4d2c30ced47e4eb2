package diary

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
)

// Export serializes every page as an indented JSON array.
func (d *Diary) Export(ctx context.Context) ([]byte, error) {
	pages, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []Page{}
	}
	data, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode pages: %w", err)
	}
	return data, nil
}

// Import replaces the whole diary with the pages in data. Every entry is
// validated before anything is written; on any violation the store is left
// untouched and the returned error wraps ErrInvalidImport and a
// criterio.FieldErrors describing each offending field.
func (d *Diary) Import(ctx context.Context, data []byte) error {
	pages, err := d.ParseImport(data)
	if err != nil {
		return err
	}
	if err := d.store.ReplaceAll(ctx, pages); err != nil {
		return fmt.Errorf("replace pages: %w", err)
	}
	d.log.Info().Int("pages", len(pages)).Msg("diary imported")
	return nil
}

// ParseImport validates data without touching the store.
func (d *Diary) ParseImport(data []byte) ([]Page, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return nil, invalidImport(criterio.NewFieldErrors("pages", fmt.Errorf("expected a JSON array of pages")))
	}

	var (
		errs  criterio.FieldErrorsBuilder
		pages = make([]Page, 0, len(entries))
		seen  = make(map[int]int, len(entries))
		now   = d.now()
	)

	for i, raw := range entries {
		field := fmt.Sprintf("pages[%d]", i)

		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			errs = errs.Append(field, fmt.Errorf("expected an object"))
			continue
		}

		page, fieldErrs := decodeEntry(field, obj)
		if len(fieldErrs) > 0 {
			for _, fe := range fieldErrs {
				errs = errs.Append(fe.Field, fe.Err)
			}
			continue
		}

		if prev, dup := seen[page.PageNumber]; dup {
			errs = errs.Append(field+".pageNumber", fmt.Errorf("duplicate page number %d (also pages[%d])", page.PageNumber, prev))
			continue
		}
		seen[page.PageNumber] = i

		if page.ID == "" {
			page.ID = uuid.NewString()
		}
		if page.CreatedAt.IsZero() {
			page.CreatedAt = now
		}
		if page.ModifiedAt.IsZero() {
			page.ModifiedAt = page.CreatedAt
		}
		pages = append(pages, page)
	}

	if err := errs.ToError(); err != nil {
		return nil, invalidImport(err)
	}
	return pages, nil
}

func invalidImport(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidImport, err)
}

type fieldError struct {
	Field string
	Err   error
}

func decodeEntry(field string, obj map[string]json.RawMessage) (Page, []fieldError) {
	var (
		page Page
		errs []fieldError
	)
	fail := func(name string, err error) {
		errs = append(errs, fieldError{Field: field + "." + name, Err: err})
	}

	rawNumber, ok := obj["pageNumber"]
	if !ok {
		fail("pageNumber", fmt.Errorf("is required"))
	} else {
		var n any
		_ = json.Unmarshal(rawNumber, &n)
		f, isNumber := n.(float64)
		switch {
		case !isNumber:
			fail("pageNumber", fmt.Errorf("must be a number"))
		case f != math.Trunc(f) || f < 1 || f > math.MaxInt32:
			fail("pageNumber", fmt.Errorf("must be a positive integer, got %v", f))
		default:
			page.PageNumber = int(f)
		}
	}

	rawContent, ok := obj["content"]
	if !ok {
		fail("content", fmt.Errorf("is required"))
	} else if err := decodeString(rawContent, &page.Content); err != nil {
		fail("content", err)
	}

	optional := []struct {
		name string
		dest *string
	}{
		{"id", &page.ID},
		{"title", &page.Title},
		{"customDate", &page.CustomDate},
		{"shadowResponse", &page.ShadowResponse},
	}
	for _, opt := range optional {
		raw, ok := obj[opt.name]
		if !ok || isNull(raw) {
			continue
		}
		if err := decodeString(raw, opt.dest); err != nil {
			fail(opt.name, err)
		}
	}

	for _, ts := range []struct {
		name string
		dest *time.Time
	}{
		{"createdAt", &page.CreatedAt},
		{"modifiedAt", &page.ModifiedAt},
	} {
		raw, ok := obj[ts.name]
		if !ok || isNull(raw) {
			continue
		}
		var s string
		if err := decodeString(raw, &s); err != nil {
			fail(ts.name, err)
			continue
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			fail(ts.name, fmt.Errorf("must be an RFC3339 timestamp"))
			continue
		}
		*ts.dest = parsed
	}

	if raw, ok := obj["tags"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &page.Tags); err != nil {
			fail("tags", fmt.Errorf("must be an array of strings"))
		}
	}

	return page, errs
}

func decodeString(raw json.RawMessage, dest *string) error {
	if err := json.Unmarshal(raw, dest); err != nil || isNull(raw) {
		return fmt.Errorf("must be a string")
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
