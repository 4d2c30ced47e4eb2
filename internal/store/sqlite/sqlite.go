// Package sqlite persists pages in a SQLite database using the pure-Go
// modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/csheth/shadowscribe/internal/diary"
)

const (
	maxRetries  = 5
	initialWait = 100 * time.Millisecond
	busyTimeout = 5000 // milliseconds
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	page_number     INTEGER PRIMARY KEY,
	id              TEXT NOT NULL,
	content         TEXT NOT NULL DEFAULT '',
	created_at      TEXT NOT NULL,
	modified_at     TEXT NOT NULL,
	title           TEXT NOT NULL DEFAULT '',
	custom_date     TEXT NOT NULL DEFAULT '',
	shadow_response TEXT NOT NULL DEFAULT '',
	tags            TEXT NOT NULL DEFAULT '[]'
);`

const pageColumns = `page_number, id, content, created_at, modified_at, title, custom_date, shadow_response, tags`

// Store is a diary.Store backed by a SQLite database file.
type Store struct {
	conn *sql.DB
}

var _ diary.Store = (*Store)(nil)

// Open creates or opens the database at path in WAL mode.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", path, busyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	ctx := context.Background()
	if err := s.pingWithRetry(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) Get(ctx context.Context, pageNumber int) (diary.Page, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE page_number = ?`, pageNumber)
	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return diary.Page{}, diary.ErrNotFound
	}
	if err != nil {
		return diary.Page{}, fmt.Errorf("get page %d: %w", pageNumber, err)
	}
	return page, nil
}

func (s *Store) Put(ctx context.Context, page diary.Page) error {
	return upsert(ctx, s.conn, page)
}

func (s *Store) List(ctx context.Context) ([]diary.Page, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY page_number`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pages []diary.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM pages`); err != nil {
		return fmt.Errorf("delete pages: %w", err)
	}
	return nil
}

// ReplaceAll deletes and re-inserts inside one transaction.
func (s *Store) ReplaceAll(ctx context.Context, pages []diary.Page) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pages`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete pages: %w", err)
	}
	for _, p := range pages {
		if err := upsert(ctx, tx, p); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, p diary.Page) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	if p.Tags == nil {
		tags = []byte("[]")
	}
	_, err = db.ExecContext(ctx, `
INSERT INTO pages (`+pageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(page_number) DO UPDATE SET
	id = excluded.id,
	content = excluded.content,
	created_at = excluded.created_at,
	modified_at = excluded.modified_at,
	title = excluded.title,
	custom_date = excluded.custom_date,
	shadow_response = excluded.shadow_response,
	tags = excluded.tags`,
		p.PageNumber, p.ID, p.Content,
		p.CreatedAt.UTC().Format(time.RFC3339Nano), p.ModifiedAt.UTC().Format(time.RFC3339Nano),
		p.Title, p.CustomDate, p.ShadowResponse, string(tags),
	)
	if err != nil {
		return fmt.Errorf("upsert page %d: %w", p.PageNumber, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (diary.Page, error) {
	var (
		p                 diary.Page
		created, modified string
		tags              string
	)
	if err := row.Scan(&p.PageNumber, &p.ID, &p.Content, &created, &modified, &p.Title, &p.CustomDate, &p.ShadowResponse, &tags); err != nil {
		return diary.Page{}, err
	}
	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return diary.Page{}, fmt.Errorf("parse created_at: %w", err)
	}
	if p.ModifiedAt, err = time.Parse(time.RFC3339Nano, modified); err != nil {
		return diary.Page{}, fmt.Errorf("parse modified_at: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return diary.Page{}, fmt.Errorf("decode tags: %w", err)
	}
	if len(p.Tags) == 0 {
		p.Tags = nil
	}
	return p, nil
}

func (s *Store) pingWithRetry(ctx context.Context) error {
	wait := initialWait
	for i := 0; i < maxRetries; i++ {
		if err := s.conn.PingContext(ctx); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			time.Sleep(wait)
			wait *= 2
		}
	}
	return fmt.Errorf("ping database after %d retries", maxRetries)
}
